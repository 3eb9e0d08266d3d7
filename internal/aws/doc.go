// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package aws contains the AWS SDK v2 config and client helpers used by the
// S3 snapshot source. Endpoint overrides make the same client usable against
// S3 compatible stores such as MinIO.
package aws
