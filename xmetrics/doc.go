// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics provides configurability for Prometheus-based metrics.  The more general go-kit interfaces
are used where possible.

A Registry may also dump everything it has gathered to a node exporter style textfile, which is
how a short-lived program such as this one hands its metrics off.
*/
package xmetrics
