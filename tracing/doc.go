// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package tracing sets up the OpenTelemetry trace pipeline: a span exporter chosen by
configuration, a batching TracerProvider describing this process as a resource, and the
global propagators.

The key type for instrumented code is Spanner, which starts OpenTelemetry spans and hands
back a closure that finishes them exactly once, producing an immutable Span record of the
operation.
*/
package tracing
