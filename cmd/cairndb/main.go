// Command cairndb is a small demo entry point exercising the buffer
// pool manager end to end: open a disk-backed file, allocate a page,
// write a payload, flush it to disk, and fetch it back.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cairndb/pagecache/internal/buffer/pool"
	"github.com/cairndb/pagecache/internal/config"
	"github.com/cairndb/pagecache/internal/storage/disk"
	"github.com/cairndb/pagecache/internal/storage/wal"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML options file (optional)")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	opts := config.DefaultOptions()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.WithError(err).Fatal("cairndb: failed to load config")
		}
		opts = loaded
	}

	diskMgr, err := disk.NewFileManager(opts.DBPath, opts.InitialPages, log)
	if err != nil {
		log.WithError(err).Fatal("cairndb: failed to open disk manager")
	}
	defer diskMgr.Close()

	logMgr := wal.NewInMemoryLogManager(log)
	bp := pool.New(opts.PoolSize, opts.ReplacerK, diskMgr, logMgr, log)

	p, err := bp.NewPage()
	if err != nil {
		log.WithError(err).Fatal("cairndb: failed to allocate page")
	}
	pid := p.Header.PageID

	copy(p.Data[:], []byte("hello from cairndb"))
	if !bp.UnpinPage(pid, true) {
		log.Fatal("cairndb: unpin failed")
	}

	if !bp.FlushPage(pid) {
		log.Fatal("cairndb: flush failed")
	}

	refetched, err := bp.FetchPage(pid)
	if err != nil {
		log.WithError(err).Fatal("cairndb: refetch failed")
	}
	defer bp.UnpinPage(pid, false)

	fmt.Fprintf(os.Stdout, "page %d payload: %q\n", pid, refetched.Data[:len("hello from cairndb")])
}
