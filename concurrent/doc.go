// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package concurrent runs a function on its own goroutine and lets the spawning goroutine
wait for it.  A panic inside the spawned function is captured and raised again, with the
same value, on whichever goroutine joins the task.
*/
package concurrent
