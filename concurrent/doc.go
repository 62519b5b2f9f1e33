// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package concurrent provides the lifecycle plumbing for components that own goroutines, such as
frame schedulers: start them as a set, signal shutdown, and wait for them to finish.
*/
package concurrent
