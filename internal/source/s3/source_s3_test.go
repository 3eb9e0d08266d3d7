// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/snaplog/internal/snapshot"
)

// fakeClient serves a fixed set of objects, two per page.
type fakeClient struct {
	objects map[string][]byte
	gets    int
	listErr error
}

func (f *fakeClient) ListObjectsV2(_ context.Context, in *s3v2.ListObjectsV2Input, _ ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, awsv2.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := min(start+2, len(keys))

	out := &s3v2.ListObjectsV2Output{IsTruncated: awsv2.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{
			Key:  awsv2.String(k),
			Size: awsv2.Int64(int64(len(f.objects[k]))),
		})
	}
	if end < len(keys) {
		out.NextContinuationToken = awsv2.String(keys[end])
	}
	return out, nil
}

func (f *fakeClient) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.gets++
	b, ok := f.objects[awsv2.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func newFake() *fakeClient {
	return &fakeClient{objects: map[string][]byte{
		"calc/calc_20250101084000.xlsx":         []byte("one"),
		"calc/calc_20250102084000.xlsx":         []byte("two"),
		"calc/calc_20250103084000.xlsx":         []byte("three"),
		"calc/calc_latest.xlsx":                 []byte("nope"),
		"calc/archive/calc_20240101084000.xlsx": []byte("old"),
		"calc/notes_20250101084000.txt":         []byte("txt"),
		"ledger/ledger_20250101084000.xlsx":     []byte("other"),
	}}
}

func TestFromURL(t *testing.T) {
	tests := []struct {
		url     string
		bucket  string
		prefix  string
		wantErr bool
	}{
		{"s3://exports/calc", "exports", "calc/", false},
		{"s3://exports/calc/", "exports", "calc/", false},
		{"s3://exports/a/b", "exports", "a/b/", false},
		{"s3://exports", "exports", "", false},
		{"s3:///calc", "", "", true},
		{"/srv/exports", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			src, err := NewSourceS3(context.Background(), FromURL(tt.url), WithClient(newFake()))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, src.Bucket)
			assert.Equal(t, tt.prefix, src.Prefix)
		})
	}
}

func TestCandidates(t *testing.T) {
	src, err := NewSourceS3(context.Background(),
		FromURL("s3://exports/calc"),
		WithPattern("calc_*.xlsx"),
		WithLocation(time.UTC),
		WithClient(newFake()),
	)
	require.NoError(t, err)

	cands, err := src.Candidates(context.Background())
	require.NoError(t, err)

	var keys []string
	for _, c := range cands {
		keys = append(keys, c.Path)
	}
	assert.Equal(t, []string{
		"calc/calc_20250101084000.xlsx",
		"calc/calc_20250102084000.xlsx",
		"calc/calc_20250103084000.xlsx",
	}, keys)

	assert.Equal(t, "calc_20250103084000.xlsx", cands[2].Name)
	assert.Equal(t, time.Date(2025, 1, 3, 8, 40, 0, 0, time.UTC), cands[2].Timestamp)
	assert.Equal(t, int64(5), cands[2].Size)
	assert.Equal(t, "s3://exports/calc/", src.String())
}

func TestCandidates_BadPattern(t *testing.T) {
	src, err := NewSourceS3(context.Background(), FromURL("s3://exports/calc"), WithClient(newFake()))
	require.NoError(t, err)

	src.Pattern = "calc_["
	_, err = src.Candidates(context.Background())
	assert.ErrorContains(t, err, "bad pattern")
}

func TestCandidates_ListError(t *testing.T) {
	fc := newFake()
	fc.listErr = errors.New("AccessDenied")

	src, err := NewSourceS3(context.Background(), FromURL("s3://exports/calc"), WithClient(fc))
	require.NoError(t, err)

	_, err = src.Candidates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestFetch_Cached(t *testing.T) {
	t.Setenv("SNAPLOG_CACHE_DIR", t.TempDir())
	t.Setenv("SNAPLOG_CACHE", "")

	fc := newFake()
	src, err := NewSourceS3(context.Background(), FromURL("s3://exports/calc"), WithClient(fc))
	require.NoError(t, err)

	cands, err := src.Candidates(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, cands)

	p, err := src.Fetch(context.Background(), cands[0])
	require.NoError(t, err)
	assert.Equal(t, ".xlsx", filepath.Ext(p))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "one", string(b))

	// The second fetch is served from the cache.
	p2, err := src.Fetch(context.Background(), cands[0])
	require.NoError(t, err)
	assert.Equal(t, p, p2)
	assert.Equal(t, 1, fc.gets)
}

func TestFetch_CacheDisabled(t *testing.T) {
	t.Setenv("SNAPLOG_CACHE", "false")

	fc := newFake()
	src, err := NewSourceS3(context.Background(), FromURL("s3://exports/calc"), WithClient(fc))
	require.NoError(t, err)

	cands, err := src.Candidates(context.Background())
	require.NoError(t, err)

	p, err := src.Fetch(context.Background(), cands[1])
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(filepath.Dir(p)) })

	assert.Equal(t, "calc_20250102084000.xlsx", filepath.Base(p))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
}

func TestFetch_Missing(t *testing.T) {
	t.Setenv("SNAPLOG_CACHE", "false")

	src, err := NewSourceS3(context.Background(), FromURL("s3://exports/calc"), WithClient(newFake()))
	require.NoError(t, err)

	c := snapshot.Candidate{Path: "calc/calc_20991231000000.xlsx", Name: "calc_20991231000000.xlsx"}
	_, err = src.Fetch(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchKey")
}
