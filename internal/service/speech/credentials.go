package speech

import (
	"errors"
	"strings"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
)

// ErrNotConfigured is returned when synthesis credentials are missing.
var ErrNotConfigured = errors.New("speech synthesis is not configured: set SPEECH_APP_ID and SPEECH_ACCESS_TOKEN")

func resolveCredentials(cfg config.SpeechConfig) (appID, token string, err error) {
	appID = strings.TrimSpace(cfg.AppID)
	token = strings.TrimSpace(cfg.AccessToken)
	if appID == "" || token == "" {
		return "", "", ErrNotConfigured
	}
	return appID, token, nil
}
