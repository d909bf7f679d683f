// Package brand holds the read-only studio knowledge base the composer renders from.
package brand

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed brand.yaml
var defaultYAML []byte

// Knowledge is the complete brand reference data.
type Knowledge struct {
	Name      string    `yaml:"name"`
	Tagline   string    `yaml:"tagline"`
	Mission   string    `yaml:"mission"`
	Location  string    `yaml:"location"`
	Email     string    `yaml:"email"`
	Phone     string    `yaml:"phone"`
	Website   string    `yaml:"website"`
	SiteURL   string    `yaml:"site_url"`
	Founded   int       `yaml:"founded"`
	TeamSize  int       `yaml:"team_size"`
	AvgAge    int       `yaml:"avg_age"`
	Identity  string    `yaml:"identity"`
	Story     string    `yaml:"story"`
	GiveHim50 string    `yaml:"give_him_50"`
	Values    []Value   `yaml:"values"`
	Stats     Stats     `yaml:"stats"`
	Services  Services  `yaml:"services"`
	TechStack TechStack `yaml:"tech_stack"`
	Team      []Member  `yaml:"team"`
	DontDo    DontDo    `yaml:"dont_do"`
	Portfolio []string  `yaml:"portfolio"`
	Scripture Scripture `yaml:"scripture"`
}

type Value struct {
	Name string `yaml:"name"`
	Desc string `yaml:"desc"`
}

type Stats struct {
	LinesOfCode     string `yaml:"lines_of_code"`
	CupsOfCoffee    string `yaml:"cups_of_coffee"`
	LaptopsSurvived string `yaml:"laptops_survived"`
	WorshipSongs    string `yaml:"worship_songs"`
	MVPsShipped     string `yaml:"mvps_shipped"`
	ProductsLive    string `yaml:"products_live"`
	LaunchTime      string `yaml:"launch_time"`
}

type Services struct {
	Genesis   Package   `yaml:"genesis"`
	Kingdom   Package   `yaml:"kingdom"`
	AI        AIService `yaml:"ai"`
	BillyPods Pods      `yaml:"billy_pods"`
}

// Package is one of the fixed-scope build offerings.
type Package struct {
	Name       string   `yaml:"name"`
	Subtitle   string   `yaml:"subtitle"`
	PerfectFor string   `yaml:"perfect_for"`
	Price      string   `yaml:"price"`
	Timeline   string   `yaml:"timeline"`
	Capacity   string   `yaml:"capacity"`
	CTOSupport string   `yaml:"cto_support"`
	Includes   []string `yaml:"includes"`
	Process    []Step   `yaml:"process"`
}

type Step struct {
	Step string `yaml:"step"`
	Desc string `yaml:"desc"`
}

type AIService struct {
	Name          string     `yaml:"name"`
	Subtitle      string     `yaml:"subtitle"`
	Options       []AIOption `yaml:"options"`
	ExampleSkills []string   `yaml:"example_skills"`
}

type AIOption struct {
	Name string `yaml:"name"`
	When string `yaml:"when"`
	Desc string `yaml:"desc"`
}

type Pods struct {
	Name string `yaml:"name"`
	Desc string `yaml:"desc"`
}

type TechStack struct {
	Backend  []string `yaml:"backend"`
	Frontend []string `yaml:"frontend"`
	CMS      []string `yaml:"cms"`
	AI       []string `yaml:"ai"`
	DevTools []string `yaml:"dev_tools"`
	Hosting  []string `yaml:"hosting"`
}

type Member struct {
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

type DontDo struct {
	ProjectsDeclined []string `yaml:"projects_declined"`
	NotOffered       []string `yaml:"not_offered"`
}

type Scripture struct {
	Main  string `yaml:"main"`
	About string `yaml:"about"`
}

// Default returns the embedded knowledge base. It panics only if the embedded
// file is broken, which the package tests rule out.
func Default() *Knowledge {
	k, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("brand: embedded knowledge base: %v", err))
	}
	return k
}

// Load reads a knowledge base from path. An empty path yields Default().
func Load(path string) (*Knowledge, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brand file %s: %w", path, err)
	}
	k, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse brand file %s: %w", path, err)
	}
	return k, nil
}

// Parse decodes and validates a YAML knowledge base.
func Parse(data []byte) (*Knowledge, error) {
	var k Knowledge
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, err
	}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return &k, nil
}

func (k *Knowledge) validate() error {
	for _, req := range []struct {
		name, val string
	}{
		{"name", k.Name},
		{"email", k.Email},
		{"site_url", k.SiteURL},
		{"services.genesis.name", k.Services.Genesis.Name},
		{"services.kingdom.name", k.Services.Kingdom.Name},
		{"services.ai.name", k.Services.AI.Name},
	} {
		if req.val == "" {
			return fmt.Errorf("required field %s is empty", req.name)
		}
	}
	return nil
}
