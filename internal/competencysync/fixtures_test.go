package competencysync

import (
	"io"
	"log"
	"testing/fstest"
)

const programmingDoc = `name: Programming
skills:
  - name: Java
    levels:
      basic: Writes simple Java classes
      decent: Uses collections and generics
      good: Designs modules
      excellent: Tunes the JVM
`

const developerDoc = `name: Developer
description: Builds features
requirements:
  - skill: Java
    category: Programming
    level: decent
`

const seniorDoc = `name: Senior Developer
description: Leads features
family: Engineering
seniorityOrder: 2
requirements:
  - skill: java
    category: "  programming "
    level: GOOD
`

const progressionsDoc = `- from: Developer
  to: Senior Developer
`

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

// scenarioFS is the Programming/Java/Developer configuration.
func scenarioFS() fstest.MapFS {
	return fstest.MapFS{
		"categories/index.txt":        file("programming.yaml\n"),
		"categories/programming.yaml": file(programmingDoc),
		"roles/index.txt":             file("developer.yaml\n"),
		"roles/developer.yaml":        file(developerDoc),
	}
}

func fullFS() fstest.MapFS {
	fsys := scenarioFS()
	fsys["roles/index.txt"] = file("developer.yaml\nsenior.yaml\n")
	fsys["roles/senior.yaml"] = file(seniorDoc)
	fsys["progressions.yaml"] = file(progressionsDoc)
	return fsys
}

func loadDataset(fsys fstest.MapFS) (Dataset, error) {
	return NewLoader(fsys, quietLogger()).Load()
}
