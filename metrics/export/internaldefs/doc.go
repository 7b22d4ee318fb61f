// Package internaldefs holds the shared counter name/help definitions used by
// the Prometheus and OpenTelemetry exporters. It exists so both exporters
// render identical metric names from one table.
package internaldefs
