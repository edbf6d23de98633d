// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package clock abstracts the passage of time so that delay-driven code can be tested
without actually sleeping.
*/
package clock
