//go:build cgo

package main

import (
	"go.uber.org/zap"

	"github.com/pageza/recipe-assistant/backend/config"
	"github.com/pageza/recipe-assistant/backend/internal/voice"
	"github.com/pageza/recipe-assistant/backend/internal/voice/whisper"
)

func newRecognizer(cfg *config.Config, dir string, log *zap.Logger) (voice.Recognizer, error) {
	return whisper.New(cfg.WhisperBin, cfg.WhisperModel, dir, cfg.WhisperMaxListen, log)
}
