package commands

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/Shadow53/hoard-sub001/pkg/checksum"
	"github.com/Shadow53/hoard-sub001/pkg/errors"
	"github.com/Shadow53/hoard-sub001/pkg/filesystem"
	"github.com/Shadow53/hoard-sub001/pkg/filters"
)

// pileFiles lists the kept files under root as slash-separated paths
// relative to it, sorted. A root that is itself a single file yields
// the one entry "". A missing root yields nothing: the pile simply has
// no content on this side yet. Any other stat failure is an error so a
// pile is never silently dropped from a snapshot.
func pileFiles(fsys filesystem.FS, root string, filter *filters.Ignore) ([]string, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to stat %q", root)
	}
	if !info.IsDir() {
		return []string{""}, nil
	}

	var files []string
	var walk func(rel string) error
	walk = func(rel string) error {
		entries, err := fsys.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to list directory under %q", root)
		}
		for _, entry := range entries {
			childRel := entry.Name()
			if rel != "" {
				childRel = rel + "/" + entry.Name()
			}
			if entry.IsDir() {
				if err := walk(childRel); err != nil {
					return err
				}
				continue
			}
			if filter == nil || filter.Keep(childRel) {
				files = append(files, childRel)
			}
		}
		return nil
	}
	if err := walk(""); err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// joinPileFile resolves a pile-relative path against the pile root.
// The empty path means the root itself is the file.
func joinPileFile(root, rel string) string {
	if rel == "" {
		return root
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}

// checksumFiles computes the checksum of each listed file under root.
func checksumFiles(fsys filesystem.FS, root string, files []string) (map[string]checksum.Checksum, error) {
	sums := make(map[string]checksum.Checksum, len(files))
	for _, rel := range files {
		path := joinPileFile(root, rel)
		data, err := fsys.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrIO, "failed to read %q", path)
		}
		sums[rel] = checksum.Default(data)
	}
	return sums, nil
}

// copyPileFile copies one pile file and returns the checksum of the
// copied content.
func copyPileFile(fsys filesystem.FS, srcRoot, dstRoot, rel string) (checksum.Checksum, error) {
	src := joinPileFile(srcRoot, rel)
	dst := joinPileFile(dstRoot, rel)

	data, err := fsys.ReadFile(src)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to read %q", src)
	}
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to create directory for %q", dst)
	}
	if err := fsys.WriteFile(dst, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to write %q", dst)
	}
	return checksum.Default(data), nil
}
