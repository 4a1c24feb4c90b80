/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
)

const meterName = "username-search"

// Attribute keys used across the app metric set.
var (
	AttrResult = attribute.Key("result")
	AttrRoute  = attribute.Key("route")
	AttrMethod = attribute.Key("method")
	AttrStatus = attribute.Key("status")
)

// AppMetrics is the instrument set for the username-search service.
type AppMetrics struct {
	// SearchesTotal counts directory searches, partitioned by result
	// ("found" / "not_found").
	SearchesTotal *Counter

	// UsersCreated counts successful signups.
	UsersCreated *Counter

	// RequestDuration records HTTP request latency in seconds.
	RequestDuration *Histogram
}

// NewAppMetrics registers the service instruments on the global meter.
func NewAppMetrics() (*AppMetrics, error) {
	meter := GetMeter(meterName)

	searches, err := NewCounter(meter, MetricOptions{
		Name:        "usernamesearch_searches_total",
		Description: "Total directory searches by result",
		Unit:        "{search}",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create searches counter: %w", err)
	}

	created, err := NewCounter(meter, MetricOptions{
		Name:        "usernamesearch_users_created_total",
		Description: "Total accounts created via signup",
		Unit:        "{user}",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create users counter: %w", err)
	}

	duration, err := NewHistogram(meter, MetricOptions{
		Name:        "usernamesearch_http_request_duration_seconds",
		Description: "HTTP request latency",
		Unit:        "s",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &AppMetrics{
		SearchesTotal:   searches,
		UsersCreated:    created,
		RequestDuration: duration,
	}, nil
}
