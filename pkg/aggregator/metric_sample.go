// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package aggregator

// MetricType is the representation of an aggregator metric type
type MetricType int

// metric type constants enumeration
const (
	GaugeType MetricType = iota
	RateType
	CountType
	MonotonicCountType
	HistogramType
)

// String returns a string representation of MetricType
func (m MetricType) String() string {
	switch m {
	case GaugeType:
		return "Gauge"
	case RateType:
		return "Rate"
	case CountType:
		return "Count"
	case MonotonicCountType:
		return "MonotonicCount"
	case HistogramType:
		return "Histogram"
	default:
		return ""
	}
}

// MetricSample represents a raw metric sample
type MetricSample struct {
	Name       string     `json:"metric"`
	Value      float64    `json:"value"`
	Mtype      MetricType `json:"type"`
	Tags       []string   `json:"tags"`
	Host       string     `json:"host"`
	SampleRate float64    `json:"-"`
	Timestamp  int64      `json:"timestamp"`
}
