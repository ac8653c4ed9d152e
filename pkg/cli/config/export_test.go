package config

import "time"

func NewSlackForTest(botToken, channel, signingSecret string) *Slack {
	return &Slack{
		botToken:      botToken,
		channel:       channel,
		signingSecret: signingSecret,
	}
}

func NewAuthForTest(secret, password string, ttl time.Duration, noAuth string) *Auth {
	return &Auth{secret: secret, password: password, ttl: ttl, noAuth: noAuth}
}

func NewWorkerForTest(scan, suggestion, workerID string, disabled bool) *Worker {
	return &Worker{scanSchedule: scan, suggestionSchedule: suggestion, workerID: workerID, disabled: disabled}
}

func NewRepositoryForTest(backend string) *Repository {
	return &Repository{backend: backend}
}

func NewExternalForTest(timeout time.Duration, retries int) *External {
	return &External{timeout: timeout, retries: retries}
}

func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
