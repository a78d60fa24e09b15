package cli

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
)

func init() {
	var output string

	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Package a Pareto store as a .tar.zst archive",
		Long: `Export bundles a store's index.json and pareto/ entry files into a
zstd-compressed tar archive, preserving the storage names so the ranking
survives the round trip.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "pareto-front.tar.zst", "archive file to write")
	rootCmd.AddCommand(cmd)
}

func runExport(dir, output string) error {
	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()

	zw, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(zw)

	count, err := archiveStore(tw, dir)
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	fmt.Printf("Exported %d entries to %s\n", count, output)
	return nil
}

func archiveStore(tw *tar.Writer, dir string) (int, error) {
	if err := addFile(tw, dir, "index.json"); err != nil && !os.IsNotExist(err) {
		return 0, err
	}

	entriesDir := filepath.Join(dir, "pareto")
	dirEntries, err := os.ReadDir(entriesDir)
	if err != nil {
		return 0, fmt.Errorf("read entries dir: %w", err)
	}

	count := 0
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		if err := addFile(tw, dir, filepath.Join("pareto", de.Name())); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func addFile(tw *tar.Writer, dir, rel string) error {
	path := filepath.Join(dir, rel)
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.ToSlash(rel)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}
