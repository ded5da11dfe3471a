package server

import (
	"strings"

	"github.com/agnel18/DevCollab/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func toHumaError(err error) error {
	code := service.CodeOf(err)
	msg := service.MessageOf(err)
	switch code {
	case service.CodeConflict:
		return huma.Error409Conflict(msg)
	case service.CodeNotFound:
		return huma.Error404NotFound(msg)
	case service.CodeValidation:
		return huma.Error400BadRequest(msg)
	default:
		return huma.Error500InternalServerError(msg)
	}
}
