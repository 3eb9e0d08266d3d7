// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for snaplog's user
// configuration. The configuration is a YAML document named by
// SNAPLOG_CFG_FILE or located in the user's configuration directory,
// typically:
//   - Linux/macOS: $XDG_CONFIG_HOME/snaplog.yaml or $HOME/.config/snaplog.yaml
//   - Windows: %APPDATA%/snaplog.yaml
//
// Datasets live under the "datasets" key, one entry per comparable export:
//
//	datasets:
//	  calc:
//	    source: /srv/exports            # or s3://bucket/prefix
//	    pattern: "calc_*.xlsx"
//	    sheet: Summary
//	    keys: [Base, Aggregate, Code]
//	    meta: [UpdatedBy, UpdatedAt]
//	    schedule: "08:40"
package config
