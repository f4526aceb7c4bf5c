package main

type ErrorResponse struct {
	Request string `json:"request"`
	Error   any    `json:"error"`
}

func NewErrorResponse(request string, error any) ErrorResponse {
	return ErrorResponse{
		Request: request,
		Error:   error,
	}
}

type ProgressResponse struct {
	Done    int     `json:"done"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	// number of vertices with a distance
	Vertices int `json:"vertices"`
}

type DistanceRequest struct {
	Vertex int64 `json:"vertex"`
}

type DistanceResponse struct {
	Vertex   int64   `json:"vertex"`
	Distance float64 `json:"distance"`
}
