package uploader

import (
	"testing"

	"noisebatch/pkg/config"
	"noisebatch/pkg/models"
)

func TestBuildKey(t *testing.T) {
	cfg := &config.UploadConfig{
		PSDPrefix:       "psd",
		BroadbandPrefix: "broadband",
	}

	cases := []struct {
		name     string
		artifact models.Artifact
		want     string
	}{
		{
			"PSD",
			models.Artifact{
				Kind:   models.KindPSD,
				Path:   "/data/hydrophone=bush_point/date=2026-01-15/psd_2026-01-15.parquet",
				Source: "bush_point",
				Date:   "2026-01-15",
			},
			"psd/hydrophone=bush_point/date=2026-01-15/psd_2026-01-15.parquet",
		},
		{
			"Broadband",
			models.Artifact{
				Kind:   models.KindBroadband,
				Path:   "/data/hydrophone=bush_point/date=2026-01-15/broadband_2026-01-15.parquet",
				Source: "bush_point",
				Date:   "2026-01-15",
			},
			"broadband/hydrophone=bush_point/date=2026-01-15/broadband_2026-01-15.parquet",
		},
		{
			"RelativeArtifactPath",
			models.Artifact{
				Kind:   models.KindPSD,
				Path:   "psd.parquet",
				Source: "sunset_bay",
				Date:   "2026-02-01",
			},
			"psd/hydrophone=sunset_bay/date=2026-02-01/psd.parquet",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BuildKey(cfg, tc.artifact); got != tc.want {
				t.Errorf("BuildKey = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestBuildKeyCustomPrefixes(t *testing.T) {
	cfg := &config.UploadConfig{
		PSDPrefix:       "levels/psd/v2",
		BroadbandPrefix: "levels/broadband/v2",
	}

	artifact := models.Artifact{
		Kind:   models.KindBroadband,
		Path:   "/tmp/broadband.parquet",
		Source: "orcasound_lab",
		Date:   "2026-03-10",
	}
	want := "levels/broadband/v2/hydrophone=orcasound_lab/date=2026-03-10/broadband.parquet"
	if got := BuildKey(cfg, artifact); got != want {
		t.Errorf("BuildKey = %s, want %s", got, want)
	}
}
