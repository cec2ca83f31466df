package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/pandodao/i18n-keys/internal/keys"
	"github.com/spf13/afero"
)

// TranslationFile is a JSON translation file and its decoded content
type TranslationFile struct {
	Path     string
	Document keys.Document

	// Malformed is set when the file couldn't be decoded as a JSON object.
	// Such files are compared as empty and never written back.
	Malformed bool
	ParseErr  error
}

// Load reads and decodes the file at path. A file that isn't a JSON object
// is returned with Malformed set rather than as an error; only I/O failures
// are errors.
func Load(fs afero.Fs, path string) (*TranslationFile, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	tf := &TranslationFile{Path: path}
	doc, err := Decode(data)
	if err != nil {
		tf.Document = keys.Document{}
		tf.Malformed = true
		tf.ParseErr = err
		return tf, nil
	}
	tf.Document = doc
	return tf, nil
}

// LoadOrEmpty is Load, but a file that doesn't exist yet yields an empty
// document.
func LoadOrEmpty(fs afero.Fs, path string) (*TranslationFile, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &TranslationFile{Path: path, Document: keys.Document{}}, nil
	}
	return Load(fs, path)
}

// Decode parses a JSON object, keeping numbers as json.Number so they are
// written back unchanged. An empty input is an empty document.
func Decode(data []byte) (keys.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return keys.Document{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc keys.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("not a JSON object")
	}
	return doc, nil
}

// JSON encodes the document with two-space indentation and no HTML escaping
func (tf *TranslationFile) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tf.Document); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the document back to its path, creating parent directories
func (tf *TranslationFile) Save(fs afero.Fs) error {
	if tf.Malformed {
		return fmt.Errorf("refusing to overwrite malformed file %s", tf.Path)
	}

	buf, err := tf.JSON()
	if err != nil {
		return fmt.Errorf("encode %s: %w", tf.Path, err)
	}
	if err := fs.MkdirAll(filepath.Dir(tf.Path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", tf.Path, err)
	}
	if err := afero.WriteFile(fs, tf.Path, buf, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tf.Path, err)
	}
	return nil
}

// LoadExpected reads an expected keys file: a JSON object of scope name to
// key document.
func LoadExpected(fs afero.Fs, path string) (keys.Expected, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	expected := keys.Expected{}
	for scope, content := range raw {
		doc, err := Decode(content)
		if err != nil {
			return nil, fmt.Errorf("parse scope %q in %s: %w", scope, path, err)
		}
		expected[scope] = doc
	}
	return expected, nil
}
