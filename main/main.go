package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rawbytedev/relptr"
)

type record struct {
	head  [16]byte
	body  [64]byte
	first relptr.SlicePtr[byte, int16]
	tag   relptr.Ptr[byte, int16]
}

func main() {
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	f, err := os.Create("mem.prof")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1
	r := new(record)
	for i := 0; i < 10000; i++ {
		if err := r.first.Set(r.body[:32]); err != nil {
			log.Fatal(err)
		}
		if err := r.tag.Set(&r.head[3]); err != nil {
			log.Fatal(err)
		}
		if got := r.first.Resolve(); len(got) != 32 {
			log.Fatal("bad slice resolve")
		}
		if got := r.tag.Resolve(); got != &r.head[3] {
			log.Fatal("bad resolve")
		}
	}
	pprof.WriteHeapProfile(f)
	time.Sleep(5 * time.Minute)
}
