// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUpstreamAttempt(t *testing.T) {
	before := testutil.ToFloat64(UpstreamAttemptsTotal.WithLabelValues("https", AttemptErrored))
	RecordUpstreamAttempt("https", AttemptErrored)
	RecordUpstreamAttempt("https", AttemptErrored)
	after := testutil.ToFloat64(UpstreamAttemptsTotal.WithLabelValues("https", AttemptErrored))
	assert.Equal(t, before+2, after)
}

func TestObserveUpstreamFetch(t *testing.T) {
	ObserveUpstreamFetch("manifest", 120*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(UpstreamFetchDuration), 1)
}

func TestRecordManifestRewrite(t *testing.T) {
	rewritten := testutil.ToFloat64(hlsRewrittenURIs.WithLabelValues("rewritten"))
	kept := testutil.ToFloat64(hlsRewrittenURIs.WithLabelValues("kept"))

	RecordManifestRewrite(3, 1)

	assert.Equal(t, rewritten+3, testutil.ToFloat64(hlsRewrittenURIs.WithLabelValues("rewritten")))
	assert.Equal(t, kept+1, testutil.ToFloat64(hlsRewrittenURIs.WithLabelValues("kept")))
}

func TestRecordDirectoryStages(t *testing.T) {
	RecordDirectoryStages(40, 2, 36)
	assert.Equal(t, 40.0, testutil.ToFloat64(directoryStations.WithLabelValues(StageScraped)))
	assert.Equal(t, 2.0, testutil.ToFloat64(directoryStations.WithLabelValues(StageExcluded)))
	assert.Equal(t, 36.0, testutil.ToFloat64(directoryStations.WithLabelValues(StageServed)))
}

func TestRecordConfigReload(t *testing.T) {
	okBefore := testutil.ToFloat64(configReloadsTotal.WithLabelValues("signal", "ok"))
	errBefore := testutil.ToFloat64(configReloadsTotal.WithLabelValues("file", "error"))

	RecordConfigReload("signal", nil)
	RecordConfigReload("file", errors.New("bad yaml"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(configReloadsTotal.WithLabelValues("signal", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(configReloadsTotal.WithLabelValues("file", "error")))
	assert.Positive(t, testutil.ToFloat64(configLastReload))
}

func TestPromhttpExposure(t *testing.T) {
	IncHLSRequest(KindManifest, OutcomeServed)
	IncDirectorySearchFailure()
	IncStreamResolution("curated", "ok")

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	for _, name := range []string{
		"radionara_hls_requests_total",
		"radionara_directory_search_failures_total",
		"radionara_stream_resolutions_total",
	} {
		assert.Contains(t, string(body), name)
	}
}
