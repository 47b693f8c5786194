package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// MetadataFile maps exported file names to their modification time.
const MetadataFile = "metadata.json"

// Direction of a sync.
type Direction int

const (
	Push Direction = iota
	Pull
)

// GenerateMetadata lists the JSON documents in dir with their modification
// time. Subdirectories and the metadata file itself are skipped.
func GenerateMetadata(dir string) (map[string]string, error) {
	metadata := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return metadata, nil
	} else if err != nil {
		return nil, fmt.Errorf("❌ Failed to scan directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || e.Name() == MetadataFile || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("❌ Failed to stat %s: %w", e.Name(), err)
		}
		metadata[e.Name()] = info.ModTime().UTC().Format(time.RFC3339)
	}
	return metadata, nil
}

// SaveMetadata writes metadata.json into dir.
func SaveMetadata(dir string, metadata map[string]string) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to marshal metadata.json: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("❌ Failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), data, 0644); err != nil {
		return fmt.Errorf("❌ Failed to write metadata.json: %w", err)
	}
	return nil
}

// LoadMetadata reads metadata.json from dir. A missing file is empty metadata.
func LoadMetadata(dir string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to read metadata.json: %w", err)
	}
	return parseMetadata(data)
}

func parseMetadata(data []byte) (map[string]string, error) {
	metadata := make(map[string]string)
	if len(bytes.TrimSpace(data)) == 0 {
		return metadata, nil
	}
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("❌ Failed to parse metadata.json: %w", err)
	}
	return metadata, nil
}

// UploadMetadata stores the metadata next to the documents in the bucket.
func (s *Syncer) UploadMetadata(ctx context.Context, metadata map[string]string) error {
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to marshal metadata.json: %w", err)
	}

	key := s.Key(MetadataFile)
	_, err = s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("❌ Failed to upload %s to S3: %w", key, err)
	}

	s.Logger.Info("metadata uploaded", zap.String("key", key), zap.Int("files", len(metadata)))
	return nil
}

// DownloadMetadata fetches the bucket metadata. A bucket without one yields
// empty metadata.
func (s *Syncer) DownloadMetadata(ctx context.Context) (map[string]string, error) {
	key := s.Key(MetadataFile)
	resp, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			s.Logger.Warn("no metadata on S3, treating bucket as empty", zap.String("key", key))
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("❌ Failed to download %s from S3: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("❌ Failed to read %s from S3: %w", key, err)
	}
	return parseMetadata(data)
}

// DetectChanges lists, sorted, the files to transfer in the given direction.
// Timestamps within a second of each other count as equal.
func DetectChanges(localMeta, remoteMeta map[string]string, dir Direction) []string {
	from, to := localMeta, remoteMeta
	if dir == Pull {
		from, to = remoteMeta, localMeta
	}

	var files []string
	for file, fromStr := range from {
		if file == MetadataFile {
			continue
		}
		toStr, exists := to[file]
		if !exists {
			files = append(files, file)
			continue
		}

		fromTime, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			continue
		}
		toTime, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			// An unreadable timestamp on the other side is stale.
			files = append(files, file)
			continue
		}
		if fromTime.After(toTime.Add(time.Second)) {
			files = append(files, file)
		}
	}

	sort.Strings(files)
	return files
}
