package core

import (
	"context"
	"net/url"
)

type (
	// API is the platform REST API as seen by the entity services.
	// All mutating calls are POSTs.
	API interface {
		Get(ctx context.Context, path string, out interface{}) error
		Post(ctx context.Context, path string, body, out interface{}) error
		PostMultipart(ctx context.Context, path string, form MultipartForm, out interface{}) error
	}

	// MultipartForm is a multipart/form-data body.
	MultipartForm struct {
		Fields url.Values
		Files  []FormFile
	}

	// FormFile is a local file sent as a multipart part.
	FormFile struct {
		Field string
		Path  string
	}
)
