// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDataset(t *testing.T) {
	withConfig(t, "datasets.yaml", func(t *testing.T) {
		ds, err := GetDataset("calc")
		require.NoError(t, err)

		assert.Equal(t, "calc", ds.Name)
		assert.Equal(t, "/srv/exports/calc", ds.Source)
		assert.Equal(t, "【合并】计算逻辑_*.xlsx", ds.Pattern)
		assert.Equal(t, "汇总", ds.Sheet)
		assert.Equal(t, []string{"基地", "聚合名称", "采集点编码"}, ds.Keys)
		assert.Equal(t, []string{"更新人", "更新时间"}, ds.Meta)
		assert.Equal(t, "未知", ds.Sentinel)
		assert.Equal(t, "/srv/change_log", ds.Output.Dir)
		assert.Equal(t, "日志_计算逻辑变更", ds.Output.Prefix)
		assert.Equal(t, "修改明细", ds.Output.Labels.Modified)
		assert.Equal(t, "新增记录", ds.Output.Labels.Added)
		assert.Equal(t, "删除记录", ds.Output.Labels.Removed)

		assert.Equal(t, "修改", ds.Output.Labels.Changed)
		assert.Equal(t, "变更字段", ds.Output.Labels.Field)

		// Labels absent from the file keep their defaults.
		assert.Equal(t, "no added records", ds.Output.Labels.NoAdded)
		assert.NoError(t, ds.Validate())
	})
}

func TestGetDataset_DefaultsFillGaps(t *testing.T) {
	withConfig(t, "datasets.yaml", func(t *testing.T) {
		ds, err := GetDataset("ledger")
		require.NoError(t, err)

		assert.Equal(t, "s3://exports/ledger", ds.Source)
		assert.Equal(t, "*.xlsx", ds.Pattern)
		assert.Equal(t, "Sheet1", ds.Sheet)
		assert.Equal(t, "06:15", ds.Schedule)
		assert.Equal(t, "unknown", ds.Sentinel)
		assert.Equal(t, "change_log", ds.Output.Dir)
		assert.Empty(t, ds.Meta)

		loc, err := ds.Location()
		require.NoError(t, err)
		assert.Equal(t, "Asia/Shanghai", loc.String())
	})
}

func TestGetDataset_Missing(t *testing.T) {
	withConfig(t, "datasets.yaml", func(t *testing.T) {
		_, err := GetDataset("nope")
		assert.ErrorIs(t, err, ErrNoDataset)
	})
}

func TestGetDataset_DefaultWithoutConfig(t *testing.T) {
	withConfig(t, "simple.yaml", func(t *testing.T) {
		ds, err := GetDataset("")
		require.NoError(t, err)
		assert.Equal(t, DefaultDataset, ds.Name)
		assert.Equal(t, "08:40", ds.Schedule)

		// No keys configured, so the dataset cannot be compared as is.
		assert.Error(t, ds.Validate())
	})
}

func TestDatasetNames(t *testing.T) {
	withConfig(t, "datasets.yaml", func(t *testing.T) {
		assert.Equal(t, []string{"broken", "calc", "ledger"}, DatasetNames())
	})

	withConfig(t, "simple.yaml", func(t *testing.T) {
		assert.Empty(t, DatasetNames())
	})
}

func TestDatasetValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Dataset)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(ds *Dataset) { ds.Keys = []string{"Base", "Code"} },
		},
		{
			name:    "no keys",
			mutate:  func(ds *Dataset) {},
			wantErr: "no key columns",
		},
		{
			name:    "empty key",
			mutate:  func(ds *Dataset) { ds.Keys = []string{"Base", ""} },
			wantErr: "empty key column",
		},
		{
			name: "no source",
			mutate: func(ds *Dataset) {
				ds.Keys = []string{"Base"}
				ds.Source = ""
			},
			wantErr: "no source",
		},
		{
			name: "bad pattern",
			mutate: func(ds *Dataset) {
				ds.Keys = []string{"Base"}
				ds.Pattern = "calc_[*.xlsx"
			},
			wantErr: "bad pattern",
		},
		{
			name: "bad timezone",
			mutate: func(ds *Dataset) {
				ds.Keys = []string{"Base"}
				ds.Timezone = "Mars/Olympus"
			},
			wantErr: "bad timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := NewDataset("t")
			tt.mutate(&ds)
			err := ds.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
