package git

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetermineBranch(t *testing.T) {
	tests := []struct {
		name   string
		branch string
		want   plumbing.ReferenceName
	}{
		{
			name:   "plain name becomes a branch reference",
			branch: "develop",
			want:   plumbing.ReferenceName("refs/heads/develop"),
		},
		{
			name:   "full branch reference passes through",
			branch: "refs/heads/main",
			want:   plumbing.ReferenceName("refs/heads/main"),
		},
		{
			name:   "tag reference passes through",
			branch: "refs/tags/v1.2.0",
			want:   plumbing.ReferenceName("refs/tags/v1.2.0"),
		},
		{
			name:   "empty keeps the zero reference",
			branch: "",
			want:   plumbing.ReferenceName(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineBranch(tt.branch))
		})
	}
}

func TestProjectNameFromURL(t *testing.T) {
	tests := []struct {
		name     string
		cloneURL string
		want     string
	}{
		{
			name:     "https url",
			cloneURL: "https://github.com/juice-shop/juice-shop",
			want:     "juice-shop",
		},
		{
			name:     "https url with .git suffix",
			cloneURL: "https://gitlab.com/acme/payment-service.git",
			want:     "payment-service",
		},
		{
			name:     "ssh url",
			cloneURL: "git@github.com:acme/billing.git",
			want:     "billing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProjectNameFromURL(tt.cloneURL)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
