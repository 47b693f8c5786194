package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nakachan-ing/pitch-cli/internal/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// syncConcurrency bounds parallel S3 transfers.
const syncConcurrency = 4

// syncOut receives the progress lines of the sync commands.
var syncOut io.Writer = os.Stdout

// SyncWithS3 - S3 との同期処理
func SyncWithS3(ctx context.Context, rt *runtimeEnv, direction util.Direction) error {
	s3Client, err := util.NewS3Client(ctx, *rt.config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}
	return syncFiles(ctx, util.NewSyncer(s3Client, *rt.config, rt.logger), direction)
}

func syncFiles(ctx context.Context, s *util.Syncer, direction util.Direction) error {
	remoteMeta, err := s.DownloadMetadata(ctx)
	if err != nil {
		return err
	}

	switch direction {
	case util.Pull:
		localMeta, err := util.GenerateMetadata(s.LocalDir)
		if err != nil {
			return err
		}

		files := util.DetectChanges(localMeta, remoteMeta, util.Pull)
		if len(files) == 0 {
			fmt.Fprintln(syncOut, "✅ No changes detected. Everything is up-to-date.")
		} else {
			fmt.Fprintf(syncOut, "🔄 Downloading %d changed files from S3...\n", len(files))
			s.Logger.Info("pulling files", zap.Int("count", len(files)), zap.String("bucket", s.Bucket))
			if err := transfer(ctx, files, s.Download); err != nil {
				return err
			}
		}

		// Downloads get a fresh mtime; stamp them with the remote one so they
		// are not pushed straight back.
		for _, name := range files {
			ts, err := time.Parse(time.RFC3339, remoteMeta[name])
			if err != nil {
				continue
			}
			if err := os.Chtimes(filepath.Join(s.LocalDir, name), ts, ts); err != nil {
				return fmt.Errorf("❌ Failed to set modification time of %s: %w", name, err)
			}
		}

		localMeta, err = util.GenerateMetadata(s.LocalDir)
		if err != nil {
			return err
		}
		return util.SaveMetadata(s.LocalDir, localMeta)

	case util.Push:
		localMeta, err := util.GenerateMetadata(s.LocalDir)
		if err != nil {
			return err
		}
		if err := util.SaveMetadata(s.LocalDir, localMeta); err != nil {
			return err
		}

		files := util.DetectChanges(localMeta, remoteMeta, util.Push)
		if len(files) == 0 {
			fmt.Fprintln(syncOut, "✅ No changes detected. Everything is up-to-date.")
			return nil
		}

		fmt.Fprintf(syncOut, "🔄 Uploading %d changed files to S3...\n", len(files))
		s.Logger.Info("pushing files", zap.Int("count", len(files)), zap.String("bucket", s.Bucket))
		if err := transfer(ctx, files, s.Upload); err != nil {
			return err
		}

		for name, ts := range localMeta {
			remoteMeta[name] = ts
		}
		return s.UploadMetadata(ctx, remoteMeta)
	}
	return fmt.Errorf("❌ Unknown sync direction: %d", direction)
}

// transfer runs fn for every file with bounded concurrency and stops at the
// first failure.
func transfer(ctx context.Context, files []string, fn func(context.Context, string) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(syncConcurrency)
	for _, name := range files {
		name := name
		g.Go(func() error {
			return fn(ctx, name)
		})
	}
	return g.Wait()
}

// ShowSyncStatus - S3 との同期状態を表示
func ShowSyncStatus(ctx context.Context, rt *runtimeEnv) error {
	s3Client, err := util.NewS3Client(ctx, *rt.config)
	if err != nil {
		return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
	}
	push, pull, err := syncStatus(ctx, util.NewSyncer(s3Client, *rt.config, rt.logger))
	if err != nil {
		return err
	}

	if len(push) == 0 && len(pull) == 0 {
		fmt.Fprintln(syncOut, "✅ Everything is up-to-date.")
		return nil
	}
	if len(push) > 0 {
		fmt.Fprintln(syncOut, "📌 Files to be uploaded to S3:")
		for _, file := range push {
			fmt.Fprintln(syncOut, "   -", file)
		}
	}
	if len(pull) > 0 {
		fmt.Fprintln(syncOut, "📌 Files to be updated from S3:")
		for _, file := range pull {
			fmt.Fprintln(syncOut, "   -", file)
		}
	}
	return nil
}

func syncStatus(ctx context.Context, s *util.Syncer) (push, pull []string, err error) {
	localMeta, err := util.GenerateMetadata(s.LocalDir)
	if err != nil {
		return nil, nil, err
	}
	remoteMeta, err := s.DownloadMetadata(ctx)
	if err != nil {
		return nil, nil, err
	}
	s.Logger.Debug("comparing metadata", zap.Int("local", len(localMeta)), zap.Int("remote", len(remoteMeta)))
	return util.DetectChanges(localMeta, remoteMeta, util.Push), util.DetectChanges(localMeta, remoteMeta, util.Pull), nil
}
