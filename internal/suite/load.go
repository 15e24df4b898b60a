package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/quadra-dev/quadra/internal/expr"
)

// Error code constants for suite loading.
const (
	ErrCodeGeneric     = "S001" // Generic/unknown error
	ErrCodeNotFound    = "S002" // Path not found
	ErrCodeNoFiles     = "S003" // No CUE files found
	ErrCodeLoadFailed  = "S004" // CUE load failed
	ErrCodeBuildFailed = "S005" // CUE build failed
	ErrCodeBadJob      = "S006" // Job fails validation
)

// LoadError represents an error that occurred during suite loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads all CUE files in dir and decodes them into a Suite.
// Fails fast on the first structural problem.
func Load(dir string) (*Suite, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("suite directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing suite directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	s := &Suite{Dir: dir, FileCount: len(cueFiles)}

	jobsVal := value.LookupPath(cue.ParsePath("jobs"))
	if !jobsVal.Exists() {
		return nil, &LoadError{Code: ErrCodeBadJob, Message: "no jobs found in suite", Pos: value.Pos()}
	}
	iter, err := jobsVal.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating jobs: %v", err)}
	}
	for iter.Next() {
		job, err := decodeJob(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		s.Jobs = append(s.Jobs, *job)
	}
	if len(s.Jobs) == 0 {
		return nil, &LoadError{Code: ErrCodeBadJob, Message: "suite declares no jobs", Pos: jobsVal.Pos()}
	}

	// Name order keeps runs and reports deterministic regardless of file
	// layout.
	sort.Slice(s.Jobs, func(i, j int) bool { return s.Jobs[i].Name < s.Jobs[j].Name })

	return s, nil
}

// decodeJob parses one CUE job struct.
func decodeJob(name string, v cue.Value) (*Job, error) {
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: %v", name, err), Pos: v.Pos()}
	}

	job := &Job{Name: name, Seed: DefaultSeed}

	fn, err := requiredString(v, "fn", name)
	if err != nil {
		return nil, err
	}
	job.Fn = fn

	job.From, err = requiredFloat(v, "from", name)
	if err != nil {
		return nil, err
	}
	job.To, err = requiredFloat(v, "to", name)
	if err != nil {
		return nil, err
	}

	samplesVal := v.LookupPath(cue.ParsePath("samples"))
	if !samplesVal.Exists() {
		return nil, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: samples is required", name), Pos: v.Pos()}
	}
	samples, err := samplesVal.Int64()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: samples: %v", name, err), Pos: samplesVal.Pos()}
	}
	job.Samples = int(samples)

	seedVal := v.LookupPath(cue.ParsePath("seed"))
	if seedVal.Exists() {
		seed, err := seedVal.Int64()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: seed: %v", name, err), Pos: seedVal.Pos()}
		}
		job.Seed = seed
	}

	expectVal := v.LookupPath(cue.ParsePath("expect"))
	if expectVal.Exists() {
		expect := &Expectation{}
		expect.Value, err = requiredFloat(expectVal, "value", name)
		if err != nil {
			return nil, err
		}
		expect.Tol, err = requiredFloat(expectVal, "tol", name)
		if err != nil {
			return nil, err
		}
		if expect.Tol <= 0 {
			return nil, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: expect.tol must be positive", name), Pos: expectVal.Pos()}
		}
		job.Expect = expect
	}

	// Structural validation the integrator would reject anyway; catching
	// it here attaches CUE positions to the message.
	if job.From >= job.To {
		return nil, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: from must be below to", name), Pos: v.Pos()}
	}
	if job.Samples < 1 {
		return nil, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: samples must be at least 1", name), Pos: v.Pos()}
	}
	if _, err := expr.Compile(job.Fn); err != nil {
		return nil, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: fn: %v", name, err), Pos: v.Pos()}
	}

	return job, nil
}

func requiredString(v cue.Value, field, job string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: %s is required", job, field), Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: %s: %v", job, field, err), Pos: fv.Pos()}
	}
	return s, nil
}

func requiredFloat(v cue.Value, field, job string) (float64, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: %s is required", job, field), Pos: v.Pos()}
	}
	f, err := fv.Float64()
	if err != nil {
		return 0, &LoadError{Code: ErrCodeBadJob, Message: fmt.Sprintf("job %s: %s: %v", job, field, err), Pos: fv.Pos()}
	}
	return f, nil
}

// findCUEFiles walks the directory and returns all .cue file paths.
func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
