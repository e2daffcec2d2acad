package utils_test

import (
	"reflect"
	"testing"

	"github.com/skelmap/skelmap/internal/utils"
)

func TestDeduplicatePatterns(t *testing.T) {
	input := []string{"dist", "tmp", "dist", "*.log", "tmp"}
	expected := []string{"dist", "tmp", "*.log"}
	if result := utils.DeduplicatePatterns(input); !reflect.DeepEqual(result, expected) {
		t.Errorf("DeduplicatePatterns = %v, expected %v", result, expected)
	}
}

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "empty", data: nil, expected: false},
		{name: "plain text", data: []byte("hello world"), expected: false},
		{name: "latin-1 text", data: []byte{'c', 'a', 'f', 0xE9}, expected: false},
		{name: "null byte", data: []byte{'a', 0x00, 'b'}, expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := utils.IsBinary(testCase.data); result != testCase.expected {
				t.Errorf("IsBinary(%v) = %v, expected %v", testCase.data, result, testCase.expected)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		bytes    int64
		expected string
	}{
		{bytes: 0, expected: "0b"},
		{bytes: 512, expected: "512b"},
		{bytes: 1024, expected: "1kb"},
		{bytes: 1536, expected: "1.5kb"},
		{bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		if result := utils.FormatFileSize(testCase.bytes); result != testCase.expected {
			t.Errorf("FormatFileSize(%d) = %q, expected %q", testCase.bytes, result, testCase.expected)
		}
	}
}

func TestRelativePathOrSelf(t *testing.T) {
	if result := utils.RelativePathOrSelf("/tmp/project/src", "/tmp/project"); result != "src" {
		t.Errorf("RelativePathOrSelf = %q, expected src", result)
	}
	if result := utils.RelativePathOrSelf("/tmp/project", "/tmp/project"); result != "." {
		t.Errorf("RelativePathOrSelf same path = %q, expected .", result)
	}
}
