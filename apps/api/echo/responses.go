package echoapi

import (
	"github.com/labstack/echo/v4"
)

// envelope is the response shape of an endpoint. Both coexist on the platform.
type envelope int

const (
	dataEnvelope   envelope = iota // {"data": ...}
	succesEnvelope                 // {"succes": true, "data": ..., "message": "..."}
	bareEnvelope                   // the payload itself
)

func (env envelope) respond(ctx echo.Context, code int, data interface{}, message string) error {
	switch env {
	case succesEnvelope:
		return ctx.JSON(code, echo.Map{"succes": true, "data": data, "message": message})
	case bareEnvelope:
		return ctx.JSON(code, data)
	}
	return ctx.JSON(code, echo.Map{"data": data})
}
