package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {

	tests := []struct {
		name    string
		content string
		want    Config
		wantErr bool
	}{
		{
			name: "full",
			content: `tracker_type: bytetrack
track_high_thresh: 0.5
track_low_thresh: 0.1
new_track_thresh: 0.6
track_buffer: 30
match_thresh: 0.8
fuse_score: True
`,
			want: Config{0.5, 0.1, 0.6, 30, 0.8, true},
		},
		{
			name:    "partial keeps defaults",
			content: "track_buffer: 60\nfuse_score: false\n",
			want:    Config{0.25, 0.1, 0.25, 60, 0.8, false},
		},
		{
			name:    "low above high",
			content: "track_high_thresh: 0.2\ntrack_low_thresh: 0.3\n",
			wantErr: true,
		},
		{
			name:    "bad match thresh",
			content: "match_thresh: 0\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			content: "track_buffer: [",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "bytetrack.yaml")
			require.NoError(t, os.WriteFile(file, []byte(tc.content), 0644))

			cfg, err := LoadConfig(file)

			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.want, cfg)
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
