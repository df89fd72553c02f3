package pcap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CollectPcapFiles returns the capture files named by root: root itself when
// it is a file, otherwise every .pcap/.pcapng/.cap file below it, sorted.
func CollectPcapFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var pcaps []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pcap", ".pcapng", ".cap":
			pcaps = append(pcaps, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk pcaps: %w", err)
	}
	sort.Strings(pcaps)
	return pcaps, nil
}
