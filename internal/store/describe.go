package store

import "fjacquet/budget-rollup/internal/textutils"

// CodeInfo explains how a raw classification code is normalized and labelled.
type CodeInfo struct {
	Raw            string `json:"raw"`
	Trimmed        string `json:"trimmed"`
	Sentinel       bool   `json:"sentinel"`
	Chapter        string `json:"chapter,omitempty"`
	ChapterName    string `json:"chapterName,omitempty"`
	Subchapter     string `json:"subchapter,omitempty"`
	SubchapterName string `json:"subchapterName,omitempty"`
}

// Describe normalizes code and looks up its chapter and subchapter names.
// Sentinel codes get no prefixes, matching how grouping skips them.
func (n Names) Describe(code string) CodeInfo {
	info := CodeInfo{
		Raw:      code,
		Trimmed:  textutils.RobustTrim(code),
		Sentinel: textutils.IsSentinel(code),
	}
	if info.Sentinel {
		return info
	}
	if prefix, ok := textutils.ChapterPrefix(code); ok {
		info.Chapter = prefix
		info.ChapterName, _ = n.Chapters.Lookup(prefix)
	}
	if sub, ok := textutils.SubchapterPrefix(code); ok {
		info.Subchapter = sub
		info.SubchapterName, _ = n.Subchapters.Lookup(sub)
	}
	return info
}
