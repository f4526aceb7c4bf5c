package main

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ttpr0/go-accessibility/batched/buffered"
	"golang.org/x/exp/slog"
)

//**********************************************************
// status server
//**********************************************************

// Serves the run state while queries are processed.
//
//	GET /progress         processed and total queries
//	GET /distance?vertex= current distance of a vertex
//	GET /metrics          prometheus metrics
type StatusServer struct {
	progress *buffered.LogProgress
	table    atomic.Pointer[buffered.DistanceTable]
	// maps external vertex ids to graph nodes
	lookup atomic.Pointer[func(int64) (int32, bool)]
}

func NewStatusServer(progress *buffered.LogProgress) *StatusServer {
	return &StatusServer{
		progress: progress,
	}
}

// Publishes the table queried by /distance.
func (self *StatusServer) SetTable(table *buffered.DistanceTable, lookup func(int64) (int32, bool)) {
	self.table.Store(table)
	self.lookup.Store(&lookup)
}

func (self *StatusServer) Router() *mux.Router {
	router := mux.NewRouter()
	MapGet(router, "/progress", func(req none) Result {
		return OK(self.Progress())
	})
	MapGet(router, "/distance", func(req DistanceRequest) Result {
		table := self.table.Load()
		lookup := self.lookup.Load()
		if table == nil || lookup == nil {
			return NotFound("no distances available yet")
		}
		node, ok := (*lookup)(req.Vertex)
		if !ok {
			return BadRequest("unknown vertex")
		}
		dist, ok := table.Get(node)
		if !ok {
			return NotFound("vertex has no distance")
		}
		return OK(DistanceResponse{Vertex: req.Vertex, Distance: dist})
	})
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return router
}

func (self *StatusServer) Progress() ProgressResponse {
	done, total := self.progress.State()
	resp := ProgressResponse{
		Done:  done,
		Total: total,
	}
	if total > 0 {
		resp.Percent = float64(done) / float64(total) * 100
	}
	if table := self.table.Load(); table != nil {
		resp.Vertices = table.Length()
	}
	return resp
}

// Serves until the context is cancelled.
func (self *StatusServer) Serve(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           self.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown_ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdown_ctx)
	}()
	slog.Info("status server listening", "address", address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
