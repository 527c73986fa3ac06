package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/scanmill/scanmill/pkg/shared"
	"github.com/scanmill/scanmill/pkg/shared/config"
	"github.com/scanmill/scanmill/pkg/shared/files"
)

// GetArtifactName build returns artifact name.
// Example: scan_juice-shop_2026-08-25T08:28:46Z.scanmill-artifact.
func GetArtifactName(command, project string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	metaDataFileName := fmt.Sprintf("%s_%s_%s.scanmill-artifact", command, project, ts)
	return metaDataFileName
}

// SaveArtifactJSON writes the provided result to a <artifacts>/<base>.json.
// Returns full path.
func SaveArtifactJSON(cfg *config.Config, logger hclog.Logger, command, project string, result shared.GenericLaunchesResult) (string, error) {
	dir := config.GetArtifactsHome(cfg)
	base := GetArtifactName(command, project, time.Now())
	path := filepath.Join(dir, base+".json")

	resultData, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}

	if err := files.WriteJsonFile(path, resultData); err != nil {
		return path, fmt.Errorf("error writing result to log file: %w", err)
	}
	logger.Info("artifact saved to file", "path", path)

	return path, nil
}
