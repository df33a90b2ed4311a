package mounts

import (
	"archive/zip"
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
)

// zipFS is a read-only billy.Filesystem over a zip archive. All mutating
// operations return billy.ErrNotSupported. The whole archive index is built
// up front; file contents are decompressed per Open.
type zipFS struct {
	root     string
	prefix   string
	files    map[string]*zip.File
	children map[string]map[string]os.FileInfo
}

func newZipFS(zr *zip.Reader, root string) billy.Filesystem {
	z := &zipFS{
		root:     root,
		files:    make(map[string]*zip.File),
		children: map[string]map[string]os.FileInfo{"": {}},
	}
	for _, f := range zr.File {
		name := normalize(f.Name)
		if name == "" {
			continue
		}
		if f.FileInfo().IsDir() {
			z.addDir(name)
			continue
		}
		z.files[name] = f
		z.addEntry(name, f.FileInfo())
	}
	return z
}

func normalize(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}

func parentOf(name string) string {
	parent := path.Dir(name)
	if parent == "." {
		return ""
	}
	return parent
}

// addDir records a directory and every missing ancestor.
func (z *zipFS) addDir(dir string) {
	for dir != "" {
		if _, ok := z.children[dir]; !ok {
			z.children[dir] = make(map[string]os.FileInfo)
		}
		parent := parentOf(dir)
		m := z.children[parent]
		if m == nil {
			m = make(map[string]os.FileInfo)
			z.children[parent] = m
		}
		base := path.Base(dir)
		if _, ok := m[base]; ok {
			return
		}
		m[base] = &zipDirInfo{name: base}
		dir = parent
	}
}

// addEntry records a file under its parent directory, creating ancestors.
func (z *zipFS) addEntry(name string, info os.FileInfo) {
	parent := parentOf(name)
	if parent != "" {
		z.addDir(parent)
	}
	z.children[parent][path.Base(name)] = info
}

func (z *zipFS) full(filename string) string {
	return normalize(path.Join(z.prefix, normalize(filename)))
}

// Open opens a file for reading. Contents are decompressed into memory so
// the returned handle supports ReadAt and Seek.
func (z *zipFS) Open(filename string) (billy.File, error) {
	name := z.full(filename)
	zf, ok := z.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: filename, Err: fs.ErrNotExist}
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return &zipFile{name: filename, reader: bytes.NewReader(data)}, nil
}

func (z *zipFS) OpenFile(filename string, flag int, _ os.FileMode) (billy.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, billy.ErrNotSupported
	}
	return z.Open(filename)
}

func (z *zipFS) Stat(filename string) (os.FileInfo, error) {
	name := z.full(filename)
	if name == "" {
		return &zipDirInfo{name: "/"}, nil
	}
	if zf, ok := z.files[name]; ok {
		return zf.FileInfo(), nil
	}
	if _, ok := z.children[name]; ok {
		return &zipDirInfo{name: path.Base(name)}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: filename, Err: fs.ErrNotExist}
}

func (z *zipFS) Lstat(filename string) (os.FileInfo, error) {
	return z.Stat(filename)
}

func (z *zipFS) ReadDir(p string) ([]os.FileInfo, error) {
	name := z.full(p)
	m, ok := z.children[name]
	if !ok {
		if _, isFile := z.files[name]; isFile {
			return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrInvalid}
		}
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}
	infos := make([]os.FileInfo, 0, len(m))
	for _, info := range m {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name() < infos[j].Name() })
	return infos, nil
}

func (z *zipFS) Join(elem ...string) string {
	return path.Join(elem...)
}

func (z *zipFS) Chroot(p string) (billy.Filesystem, error) {
	name := z.full(p)
	if _, ok := z.children[name]; !ok {
		return nil, &fs.PathError{Op: "chroot", Path: p, Err: fs.ErrNotExist}
	}
	return &zipFS{
		root:     z.root,
		prefix:   name,
		files:    z.files,
		children: z.children,
	}, nil
}

func (z *zipFS) Root() string {
	if z.prefix == "" {
		return z.root
	}
	return z.root + "!" + z.prefix
}

// Mutating operations: the archive surface is read-only.

func (z *zipFS) Create(string) (billy.File, error)           { return nil, billy.ErrNotSupported }
func (z *zipFS) Rename(string, string) error                 { return billy.ErrNotSupported }
func (z *zipFS) Remove(string) error                         { return billy.ErrNotSupported }
func (z *zipFS) MkdirAll(string, os.FileMode) error          { return billy.ErrNotSupported }
func (z *zipFS) TempFile(string, string) (billy.File, error) { return nil, billy.ErrNotSupported }
func (z *zipFS) Symlink(string, string) error                { return billy.ErrNotSupported }
func (z *zipFS) Readlink(string) (string, error)             { return "", billy.ErrNotSupported }

// zipFile is an in-memory read handle over one archive member.
type zipFile struct {
	name   string
	reader *bytes.Reader
}

func (f *zipFile) Name() string { return f.name }

func (f *zipFile) Read(p []byte) (int, error) { return f.reader.Read(p) }

func (f *zipFile) ReadAt(p []byte, off int64) (int, error) { return f.reader.ReadAt(p, off) }

func (f *zipFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

func (f *zipFile) Close() error { return nil }

func (f *zipFile) Write([]byte) (int, error) { return 0, billy.ErrNotSupported }

func (f *zipFile) Truncate(int64) error { return billy.ErrNotSupported }

func (f *zipFile) Lock() error   { return nil }
func (f *zipFile) Unlock() error { return nil }

// zipDirInfo is the synthesized FileInfo for archive directories.
type zipDirInfo struct {
	name string
}

func (d *zipDirInfo) Name() string       { return d.name }
func (d *zipDirInfo) Size() int64        { return 0 }
func (d *zipDirInfo) Mode() os.FileMode  { return os.ModeDir | 0555 }
func (d *zipDirInfo) ModTime() time.Time { return time.Time{} }
func (d *zipDirInfo) IsDir() bool        { return true }
func (d *zipDirInfo) Sys() any           { return nil }
