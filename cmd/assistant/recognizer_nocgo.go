//go:build !cgo

package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/config"
	"github.com/pageza/recipe-assistant/backend/internal/voice"
)

func newRecognizer(*config.Config, string, *zap.Logger) (voice.Recognizer, error) {
	return nil, errors.New("voice input needs a cgo build with PortAudio")
}
