// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package logging builds the zap logger used by otlp-debug.

Output is filtered per logger name with directives of the form

	otlp_debug=info,otlp_debug.workflow=debug,warn

where a bare level is the default applied to every logger no directive matches.  Entries
written through a logger obtained from Ctx are also recorded as events on the span active
in that context, so log lines show up in the exported trace.
*/
package logging
