package testsCommon

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iulianpascalau/lmeasure-svc/services/lmeasure/common"
)

// FakeToolVersion is the release reported by the fake tool banner
const FakeToolVersion = "5.3"

// SampleSWC is a small, valid SWC reconstruction
const SampleSWC = `# sample neuron
1 1 0.0 0.0 0.0 5.0 -1
2 3 0.0 10.0 0.0 1.0 1
3 3 5.0 20.0 0.0 0.8 2
4 3 -5.0 20.0 0.0 0.8 2
5 2 0.0 -10.0 0.0 0.5 1
`

const fakeToolHeader = `#!/bin/sh
if [ $# -eq 0 ]; then
  echo "L-Measure Release ` + FakeToolVersion + ` (fake build)" >&2
  echo "usage: lmeasure [-fN,spec,dist,bins ...] file" >&2
  exit 1
fi
if [ "$1" = "-p" ]; then
  if ! grep -q '^[[:space:]]*[0-9]' "$2"; then
    echo "File type is not supported" >&2
    exit 0
  fi
  grep -v '^[[:space:]]*#' "$2" > "$2.swc"
  echo "converted $2" >&2
  exit 0
fi
eval "input=\${$#}"
echo "Processing $input" >&2
if ! grep -q '^[[:space:]]*[0-9]' "$input"; then
  echo "File type is not supported" >&2
  exit 0
fi
echo "L-Measure computed values"
for arg in "$@"; do
  case "$arg" in
    -f*)
      idx=${arg#-f}
      idx=${idx%%,*}
      case "$idx" in
`

const fakeToolFooter = `        *) echo "unknown function $idx" >&2 ;;
      esac
      ;;
  esac
done
exit 0
`

// CreateFakeTool writes into dir an executable shell script that answers like the tool would
// for every descriptor provided. It must be created before tests start spawning processes.
func CreateFakeTool(dir string, descriptors []common.MetricDescriptor) (string, error) {
	builder := strings.Builder{}
	builder.WriteString(fakeToolHeader)
	for _, d := range descriptors {
		row := "3 2 (0) 1 1.5 2 0.5"
		if d.Type == common.Real {
			row = "12.5 2 (0) 4.25 6.25 8.25 2.0"
		}

		builder.WriteString(fmt.Sprintf("        %d) echo \"$input %s %s\" ;;\n", d.Index, d.Name, row))
	}
	builder.WriteString(fakeToolFooter)

	return writeScript(dir, "lmeasure", builder.String())
}

// CreateHangingTool writes into dir a tool that records its last argument in seenFile and never exits in time
func CreateHangingTool(dir string) (toolPath string, seenFile string, err error) {
	seenFile = filepath.Join(dir, "hanging-seen")
	script := fmt.Sprintf("#!/bin/sh\neval \"input=\\${$#}\"\necho \"$input\" > %s\necho partial\nexec sleep 30\n", seenFile)

	toolPath, err = writeScript(dir, "lmeasure-hanging", script)
	return toolPath, seenFile, err
}

// CreateScriptTool writes into dir a tool with the provided shell body
func CreateScriptTool(dir string, name string, body string) (string, error) {
	return writeScript(dir, name, "#!/bin/sh\n"+body+"\n")
}

func writeScript(dir string, name string, contents string) (string, error) {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(contents), 0755)
	if err != nil {
		return "", err
	}

	return path, nil
}
