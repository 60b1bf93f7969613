package port

// DirLister lists one directory level and reads files.
type DirLister interface {
	List(dir string) ([]DirEntry, error)
	ReadFile(path string) ([]byte, error)
}

type DirEntry struct {
	Name    string
	Path    string
	IsDir   bool
	ModTime int64
	Size    int64
}
