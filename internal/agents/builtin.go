// Package agents defines the built-in expert reviewers and how they are
// selected for a run.
package agents

import (
	"path/filepath"
	"strings"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// binaryExtensions are never worth sending to a style reviewer.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".so": true,
	".dylib": true, ".dll": true, ".exe": true, ".bin": true, ".woff": true,
	".woff2": true, ".ttf": true,
}

func skipBinary(path, content string) bool {
	if binaryExtensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	// Content sniff catches extensionless binaries the map misses.
	return !strings.ContainsRune(content, '\x00')
}

// pythonImports collects the import lines of every Python file so the
// expert can cross-check library usage against what is actually imported.
func pythonImports(files map[string]string) map[string]string {
	var imports []string
	for path, content := range files {
		if !strings.HasSuffix(path, ".py") {
			continue
		}
		for _, line := range strings.Split(content, "\n") {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
				imports = append(imports, path+": "+trimmed)
			}
		}
	}
	if len(imports) == 0 {
		return nil
	}
	return map[string]string{"imports": strings.Join(imports, "\n")}
}

// Builtin returns the built-in expert descriptors sorted by priority
// (lower first). With lite set, every agent gets the compact prompt
// instead of its full role prompt.
func Builtin(lite bool) []core.AgentDescriptor {
	prompt := func(role string) string {
		if lite {
			return baseLitePrompt
		}
		return baseAntiHallucinationPrompt + role + jsonSchemaFooter
	}

	descriptors := []core.AgentDescriptor{
		{
			Name:         "terraform_expert",
			Description:  "Terraform and Infrastructure as Code Expert",
			SystemPrompt: prompt(terraformPrompt),
			FilePatterns: []string{"*.tf", "*.tfvars", "*.hcl", "terraform/*"},
			Priority:     1,
			Enabled:      true,
		},
		{
			Name:         "python_expert",
			Description:  "Python Code Review Expert",
			SystemPrompt: prompt(pythonPrompt),
			FilePatterns: []string{"*.py", "requirements*.txt", "setup.py", "pyproject.toml", "poetry.lock"},
			Priority:     1,
			Enabled:      true,
			ExtraContext: pythonImports,
		},
		{
			Name:         "security_expert",
			Description:  "Security and Vulnerability Analysis Expert",
			SystemPrompt: prompt(securityPrompt),
			FilePatterns: []string{"*"},
			Priority:     1,
			Enabled:      true,
			FileFilter:   skipBinary,
		},
		{
			Name:         "aws_expert",
			Description:  "AWS Cloud and Infrastructure Expert",
			SystemPrompt: prompt(awsPrompt),
			FilePatterns: []string{
				"*.yaml", "*.yml", "*.json", "*.py", "*.ts", "*.js",
				"template.yaml", "template.yml", "samconfig.toml", "cdk.json",
				"cloudformation/*", "cfn/*", "cdk/*", "sam/*", "lambda/*", "lambdas/*",
			},
			Priority: 1,
			Enabled:  true,
		},
		{
			Name:         "gitops_expert",
			Description:  "GitOps and Kubernetes Deployment Expert",
			SystemPrompt: prompt(gitopsPrompt),
			FilePatterns: []string{
				"*.yaml", "*.yml", "k8s/*", "kubernetes/*",
				"helm/*", "charts/*", "argocd/*", "flux/*",
			},
			Priority: 2,
			Enabled:  true,
		},
		{
			Name:         "jenkins_expert",
			Description:  "Jenkins CI/CD Pipeline Expert",
			SystemPrompt: prompt(jenkinsPrompt),
			FilePatterns: []string{"Jenkinsfile*", "*.groovy", "jenkins/*", ".jenkins/*"},
			Priority:     2,
			Enabled:      true,
		},
		{
			Name:         "clean_code_expert",
			Description:  "Clean Code and Software Craftsmanship Expert",
			SystemPrompt: prompt(cleanCodePrompt),
			FilePatterns: []string{
				"*.py", "*.js", "*.ts", "*.java", "*.cs", "*.go", "*.rb",
				"*.php", "*.cpp", "*.c", "*.h", "*.rs", "*.swift", "*.kt", "*.scala",
			},
			Priority:   2,
			Enabled:    true,
			FileFilter: skipBinary,
		},
		{
			Name:         "cost_expert",
			Description:  "Cloud Cost Optimization Expert",
			SystemPrompt: prompt(costPrompt),
			FilePatterns: []string{"*.tf", "*.yaml", "*.yml", "*.json"},
			Priority:     3,
			Enabled:      true,
		},
	}

	sortByPriority(descriptors)
	return descriptors
}

// sortByPriority is a stable insertion sort; the built-in list is small and
// declaration order is the tiebreak.
func sortByPriority(ds []core.AgentDescriptor) {
	for i := 1; i < len(ds); i++ {
		for j := i; j > 0 && ds[j-1].Priority > ds[j].Priority; j-- {
			ds[j-1], ds[j] = ds[j], ds[j-1]
		}
	}
}
