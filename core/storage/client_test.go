package storage_test

import (
	"testing"

	"kbli-registry/core/storage"

	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name string
		cfg  storage.Config
	}{
		{"Plain Endpoint", storage.Config{Endpoint: "localhost:9000", AccessKey: "key", SecretKey: "secret", Bucket: "kbli"}},
		{"HTTP Scheme Stripped", storage.Config{Endpoint: "http://localhost:9000", AccessKey: "key", SecretKey: "secret"}},
		{"HTTPS With Region", storage.Config{Endpoint: "https://s3.amazonaws.com", AccessKey: "key", SecretKey: "secret", UseSSL: true, Region: "ap-southeast-3"}},
		{"Zero Timeout Uses Default", storage.Config{Endpoint: "localhost:9000", TimeoutSeconds: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := storage.NewClient(tt.cfg)
			assert.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}
