package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"steameagle/internal/services/eagle"
)

// ImportCall records one addFromPaths request received by FakeEagle.
type ImportCall struct {
	FolderID string       `json:"folderId"`
	Items    []eagle.Item `json:"items"`
}

// FakeEagle serves the subset of the Eagle local API used by steameagle.
type FakeEagle struct {
	server *httptest.Server

	mu          sync.Mutex
	libraryName string
	folders     []eagle.Folder
	created     []string
	imports     []ImportCall
	failImport  bool
	nextID      int
}

// FakeEagleOption customizes a FakeEagle.
type FakeEagleOption func(*FakeEagle)

// WithLibraryName sets the name of the open library. Defaults to "Games".
func WithLibraryName(name string) FakeEagleOption {
	return func(f *FakeEagle) { f.libraryName = name }
}

// WithFolders seeds existing top-level folders.
func WithFolders(folders ...eagle.Folder) FakeEagleOption {
	return func(f *FakeEagle) { f.folders = append(f.folders, folders...) }
}

// WithFailingImport makes addFromPaths answer with an error envelope.
func WithFailingImport() FakeEagleOption {
	return func(f *FakeEagle) { f.failImport = true }
}

// NewFakeEagle starts a fake Eagle server closed at test cleanup.
func NewFakeEagle(t testing.TB, opts ...FakeEagleOption) *FakeEagle {
	t.Helper()

	f := &FakeEagle{libraryName: "Games"}
	for _, opt := range opts {
		opt(f)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/library/info", f.handleLibraryInfo)
	mux.HandleFunc("GET /api/folder/list", f.handleFolderList)
	mux.HandleFunc("POST /api/folder/create", f.handleFolderCreate)
	mux.HandleFunc("POST /api/item/addFromPaths", f.handleAddFromPaths)
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake server.
func (f *FakeEagle) URL() string { return f.server.URL }

// LibraryName returns the name of the open library.
func (f *FakeEagle) LibraryName() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.libraryName
}

// CreatedFolders returns names passed to folder/create.
func (f *FakeEagle) CreatedFolders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.created...)
}

// Imports returns the recorded addFromPaths calls.
func (f *FakeEagle) Imports() []ImportCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ImportCall(nil), f.imports...)
}

func (f *FakeEagle) handleLibraryInfo(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	name := f.libraryName
	f.mu.Unlock()
	writeEagle(w, map[string]any{
		"library": map[string]any{"name": name, "path": "/libraries/" + name + ".library"},
	})
}

func (f *FakeEagle) handleFolderList(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	folders := append([]eagle.Folder{}, f.folders...)
	f.mu.Unlock()
	writeEagle(w, folders)
}

func (f *FakeEagle) handleFolderCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FolderName string `json:"folderName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FolderName == "" {
		writeEagleError(w, "folderName required")
		return
	}
	f.mu.Lock()
	f.nextID++
	folder := eagle.Folder{ID: fmt.Sprintf("FOLDER%04d", f.nextID), Name: req.FolderName}
	f.folders = append(f.folders, folder)
	f.created = append(f.created, req.FolderName)
	f.mu.Unlock()
	writeEagle(w, folder)
}

func (f *FakeEagle) handleAddFromPaths(w http.ResponseWriter, r *http.Request) {
	var call ImportCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		writeEagleError(w, "invalid payload")
		return
	}
	f.mu.Lock()
	fail := f.failImport
	if !fail {
		f.imports = append(f.imports, call)
	}
	f.mu.Unlock()
	if fail {
		writeEagleError(w, "import rejected")
		return
	}
	writeEagle(w, nil)
}

func writeEagle(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	payload := map[string]any{"status": "success"}
	if data != nil {
		payload["data"] = data
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeEagleError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "message": message})
}
