// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package workflow runs a fixed tree of nested, delayed operations, each inside its own span.

A Step is a named span whose body is an ordered list of actions: sleeps, log lines and nested
steps.  Everything runs sequentially on the calling goroutine.
*/
package workflow
