package export

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/scanmill/scanmill/pkg/shared/config"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name   string
		bucket string
		want   bool
	}{
		{name: "configured bucket enables mirroring", bucket: "scanmill-reports", want: true},
		{name: "empty bucket disables mirroring", bucket: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Storage.S3Bucket = tt.bucket
			cfg.Storage.S3Region = "eu-west-2"

			exporter := New(hclog.NewNullLogger(), cfg)
			assert.Equal(t, tt.want, exporter.Enabled())
		})
	}
}
