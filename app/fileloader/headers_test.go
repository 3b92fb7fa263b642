package fileloader

import (
	"reflect"
	"testing"
)

func TestNormalizeHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{
			name:   "all named",
			header: []string{"name", "width"},
			want:   []string{"name", "width"},
		},
		{
			name:   "empty and whitespace",
			header: []string{"name", "", "age", "  ", "city"},
			want:   []string{"name", "Unnamed_A", "age", "Unnamed_B", "city"},
		},
		{
			name:   "all empty",
			header: []string{"", "", ""},
			want:   []string{"Unnamed_A", "Unnamed_B", "Unnamed_C"},
		},
		{
			name:   "none",
			header: []string{},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeHeaders(tt.header); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeHeaders(%v) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeadersPastZ(t *testing.T) {
	header := make([]string, 28)
	got := NormalizeHeaders(header)
	if got[25] != "Unnamed_Z" || got[26] != "Unnamed_AA" || got[27] != "Unnamed_AB" {
		t.Errorf("wraparound = %v", got[24:])
	}
}

func TestExcelColumnName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
	}

	for _, tt := range tests {
		if got := excelColumnName(tt.index); got != tt.want {
			t.Errorf("excelColumnName(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestDetectCompressionByExtension(t *testing.T) {
	tests := []struct {
		path string
		want CompressionType
	}{
		{"data.csv.gz", CompressionGzip},
		{"data.csv.bz2", CompressionBzip2},
		{"data.csv.xz", CompressionXZ},
		{"DATA.CSV.GZ", CompressionGzip},
	}

	for _, tt := range tests {
		if got := DetectCompression(tt.path); got != tt.want {
			t.Errorf("DetectCompression(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDetectCompressionByMagic(t *testing.T) {
	dir := t.TempDir()

	gzPath := writeGzipFile(t, dir, "no-extension", "name\ndoor\n")
	if got := DetectCompression(gzPath); got != CompressionGzip {
		t.Errorf("gzip magic = %v", got)
	}

	plainPath := writeFile(t, dir, "plain", "name\ndoor\n")
	if got := DetectCompression(plainPath); got != CompressionNone {
		t.Errorf("plain file = %v", got)
	}
}
