package main

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gorilla/mux"
	. "github.com/ttpr0/go-accessibility/util"
	"golang.org/x/exp/slog"
)

type none struct{}

func WriteResponse[T any](w http.ResponseWriter, resp T, status int) {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

type Result struct {
	result any
	status int
}

func OK[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusOK,
	}
}

func BadRequest[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusBadRequest,
	}
}

func NotFound[T any](value T) Result {
	return Result{
		result: value,
		status: http.StatusNotFound,
	}
}

// Registers a GET handler whose request is read from the query parameters
// using the `json` tags of F.
func MapGet[F any](router *mux.Router, path string, handler func(F) Result) {
	var val F
	typ := reflect.TypeOf(val)
	num_field := typ.NumField()
	fields := NewList[Triple[int, string, reflect.Kind]](num_field)
	for i := 0; i < num_field; i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" {
			continue
		}
		switch field.Type.Kind() {
		case reflect.Bool:
			fields.Add(MakeTriple(i, tag, reflect.Bool))
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			fields.Add(MakeTriple(i, tag, reflect.Int))
		case reflect.Float32, reflect.Float64:
			fields.Add(MakeTriple(i, tag, reflect.Float64))
		case reflect.String:
			fields.Add(MakeTriple(i, tag, reflect.String))
		}
	}
	router.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("GET " + path)
		query := r.URL.Query()
		t := reflect.New(typ).Elem()
		for _, field := range fields {
			value := query.Get(field.B)
			if value == "" {
				continue
			}
			f := t.Field(field.A)
			var err error
			switch field.C {
			case reflect.Bool:
				var b bool
				b, err = strconv.ParseBool(value)
				f.SetBool(b)
			case reflect.Int:
				var num int64
				num, err = strconv.ParseInt(value, 10, 64)
				f.SetInt(num)
			case reflect.Float64:
				var num float64
				num, err = strconv.ParseFloat(value, 64)
				f.SetFloat(num)
			case reflect.String:
				f.SetString(value)
			}
			if err != nil {
				WriteResponse(w, NewErrorResponse(path, "invalid parameter "+field.B), http.StatusBadRequest)
				return
			}
		}
		res := handler(t.Interface().(F))
		if res.status != http.StatusOK {
			slog.Warn("failed GET " + path)
			WriteResponse(w, NewErrorResponse(path, res.result), res.status)
		} else {
			WriteResponse(w, res.result, res.status)
		}
	}).Methods("GET")
}
