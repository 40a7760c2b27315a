package example

import "fmt"

// SourceKind identifies what kind of artifact a runtime executes.
type SourceKind string

// Source kinds recognised by the invocation builder.
const (
	KindNone       SourceKind = ""
	KindSourceFile SourceKind = "source_file"
	KindBinaryPath SourceKind = "binary_path"
	KindModulePath SourceKind = "module_path"
)

// RuntimeSpec is the static description of one runtime
// participant, as read from the concrete section of a comparison
// document.
type RuntimeSpec struct {
	// Name is the runtime name used in reports.
	Name string `json:"name" yaml:"name"`

	// Executor optionally names the registered executor; when
	// empty the runtime name is used.
	Executor string `json:"executor,omitempty" yaml:"executor,omitempty"`

	// File is a source file relative to the document directory.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Binary is a compiled executable relative to the document
	// directory.
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty"`

	// Module is a loadable module (e.g. WebAssembly) relative to
	// the document directory.
	Module string `json:"module,omitempty" yaml:"module,omitempty"`

	// Entry is the entry point carried unchanged to the executor.
	Entry string `json:"entry,omitempty" yaml:"entry,omitempty"`

	// Image is the container image for container-backed runtimes.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`

	// URL is the endpoint for network-backed runtimes.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Batch overrides the configured batch capability when set.
	Batch *bool `json:"batch,omitempty" yaml:"batch,omitempty"`
}

// ExecutorName returns the executor to look up in the registry.
func (s RuntimeSpec) ExecutorName() string {
	if s.Executor != "" {
		return s.Executor
	}
	return s.Name
}

// Kind returns the artifact kind this runtime names. A source file
// wins over a binary, which wins over a module.
func (s RuntimeSpec) Kind() SourceKind {
	switch {
	case s.File != "":
		return KindSourceFile
	case s.Binary != "":
		return KindBinaryPath
	case s.Module != "":
		return KindModulePath
	}
	return KindNone
}

// Validate checks the runtime spec for required fields.
func (s RuntimeSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("runtime name is required")
	}
	return nil
}
