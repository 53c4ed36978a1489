// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	clouddb "github.com/seligman/cloud-sizes"
)

func TestGaugesReflectStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := NewGauges(reg)

	g.Set(clouddb.Stats{Ranges: 10, Sources: 2, Branches: 5, Leafs: 3, Size: 4096})

	var m dto.Metric
	require.NoError(t, g.Ranges.Write(&m))
	require.Equal(t, float64(10), m.GetGauge().GetValue())
}
