// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package features

import (
	"github.com/tomtom215/rqaguard/internal/models"
)

// Vector is an encoded observation. Values are aligned with Names.
type Vector struct {
	Names  []string
	Values []float64
}

// Map returns the vector keyed by feature name.
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Names))
	for i, name := range v.Names {
		m[name] = v.Values[i]
	}
	return m
}

// Get returns the value of the named feature and whether it exists.
func (v Vector) Get(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Encoder encodes observations against a fixed schema and vocabulary table.
// It is immutable after construction and safe for concurrent use.
type Encoder struct {
	names []string
	table map[string]map[string]float64
}

// NewEncoder builds the encoder for the default schema.
func NewEncoder() *Encoder {
	return &Encoder{
		names: Schema,
		table: map[string]map[string]float64{
			FieldProtocolType: vocabulary(Protocols),
			FieldService:      vocabulary(Services),
			FieldFlag:         vocabulary(Flags),
		},
	}
}

func vocabulary(values []string) map[string]float64 {
	m := make(map[string]float64, len(values))
	for i, v := range values {
		m[v] = float64(i + 1)
	}
	return m
}

// Names returns the schema in order.
func (e *Encoder) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Category returns the code of value within the named categorical field,
// 0 when the field or value is unknown.
func (e *Encoder) Category(field, value string) float64 {
	return e.table[field][value]
}

// Encode builds the feature vector for obs.
//
// Categorical fields come from the observation tags. src_bytes defaults to
// the observation byte size and land to whether source equals destination;
// explicit entries in obs.Features override both. Every other feature is
// read from obs.Features with zero as the default.
func (e *Encoder) Encode(obs *models.Observation) Vector {
	values := make([]float64, len(e.names))
	for i, name := range e.names {
		switch name {
		case FieldProtocolType:
			values[i] = e.Category(name, obs.Protocol)
		case FieldService:
			values[i] = e.Category(name, obs.Service)
		case FieldFlag:
			values[i] = e.Category(name, obs.Flag)
		case FieldSrcBytes:
			values[i] = lookup(obs.Features, name, obs.Bytes)
		case FieldLand:
			land := 0.0
			if obs.SourceAddr != "" && obs.SourceAddr == obs.DestAddr {
				land = 1
			}
			values[i] = lookup(obs.Features, name, land)
		default:
			values[i] = lookup(obs.Features, name, 0)
		}
	}
	return Vector{Names: e.names, Values: values}
}

func lookup(m map[string]float64, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}
