package api

import (
	_ "embed"

	"github.com/labstack/echo/v4"
)

//go:embed static/index.html
var landingPage []byte

func serveLandingPage(status int) echo.HandlerFunc {
	return func(ec echo.Context) error {
		return ec.HTMLBlob(status, landingPage)
	}
}
