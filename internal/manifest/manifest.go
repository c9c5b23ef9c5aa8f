// Package manifest 描述 hello_world 模块的声明式元数据：模块信息、模型字段、访问控制行与列表/表单视图布局。
//
// 这些内容作为只读数据随二进制一起发布（go:embed），通过 GET /v1/manifest 对外暴露，服务本身不据此做鉴权或渲染。
package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var embeddedManifest []byte

// Manifest 是模块清单。
type Manifest struct {
	Name          string   `yaml:"name" json:"name"`
	TechnicalName string   `yaml:"technical_name" json:"technical_name"`
	Version       string   `yaml:"version" json:"version"`
	Summary       string   `yaml:"summary" json:"summary"`
	Description   string   `yaml:"description" json:"description"`
	Category      string   `yaml:"category" json:"category"`
	Author        string   `yaml:"author" json:"author"`
	License       string   `yaml:"license" json:"license"`
	Depends       []string `yaml:"depends" json:"depends"`
	Installable   bool     `yaml:"installable" json:"installable"`
	Application   bool     `yaml:"application" json:"application"`

	Models []Model     `yaml:"models" json:"models"`
	Access []AccessRow `yaml:"access" json:"access"`
	Views  []View      `yaml:"views" json:"views"`
}

// Model 声明一个记录类型及其字段。
type Model struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Fields      []Field `yaml:"fields" json:"fields"`
}

// Field 声明模型字段。Computed 字段不落库，由 Depends 中的字段推导。
type Field struct {
	Name     string   `yaml:"name" json:"name"`
	String   string   `yaml:"string" json:"string"`
	Type     string   `yaml:"type" json:"type"`
	Required bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Default  any      `yaml:"default,omitempty" json:"default,omitempty"`
	Computed bool     `yaml:"computed,omitempty" json:"computed,omitempty"`
	Depends  []string `yaml:"depends,omitempty" json:"depends,omitempty"`
}

// AccessRow 对应一行访问控制声明（组 × 模型 × 读/写/建/删）。
type AccessRow struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Model      string `yaml:"model" json:"model"`
	Group      string `yaml:"group" json:"group"`
	PermRead   bool   `yaml:"perm_read" json:"perm_read"`
	PermWrite  bool   `yaml:"perm_write" json:"perm_write"`
	PermCreate bool   `yaml:"perm_create" json:"perm_create"`
	PermUnlink bool   `yaml:"perm_unlink" json:"perm_unlink"`
}

// View 声明列表或表单视图展示的字段顺序。
type View struct {
	ID     string   `yaml:"id" json:"id"`
	Name   string   `yaml:"name" json:"name"`
	Model  string   `yaml:"model" json:"model"`
	Type   string   `yaml:"type" json:"type"`
	Fields []string `yaml:"fields" json:"fields"`
}

var (
	// ErrInvalidManifest 表示清单结构不完整或引用不一致。
	ErrInvalidManifest = errors.New("manifest: invalid")

	defaultOnce     sync.Once
	defaultManifest *Manifest
	defaultErr      error
)

// Load 解析内嵌的 manifest.yaml 并校验。
func Load() (*Manifest, error) {
	return Parse(embeddedManifest)
}

// Parse 解析任意 YAML 字节并校验。
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Default 返回内嵌清单的单例。内嵌资源损坏属于构建错误，直接 panic。
func Default() *Manifest {
	defaultOnce.Do(func() {
		defaultManifest, defaultErr = Load()
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultManifest
}

// Validate 检查必填项，以及访问控制行、视图对模型和字段的引用。
func (m *Manifest) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: nil manifest", ErrInvalidManifest)
	}
	var errs []error
	if m.Name == "" {
		errs = append(errs, fmt.Errorf("%w: name is required", ErrInvalidManifest))
	}
	if m.Version == "" {
		errs = append(errs, fmt.Errorf("%w: version is required", ErrInvalidManifest))
	}
	if len(m.Models) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one model is required", ErrInvalidManifest))
	}

	fields := make(map[string]map[string]struct{}, len(m.Models))
	for _, model := range m.Models {
		if model.Name == "" {
			errs = append(errs, fmt.Errorf("%w: model name is required", ErrInvalidManifest))
			continue
		}
		set := make(map[string]struct{}, len(model.Fields))
		for _, f := range model.Fields {
			set[f.Name] = struct{}{}
		}
		for _, f := range model.Fields {
			for _, dep := range f.Depends {
				if _, ok := set[dep]; !ok {
					errs = append(errs, fmt.Errorf("%w: field %s.%s depends on unknown field %q", ErrInvalidManifest, model.Name, f.Name, dep))
				}
			}
		}
		fields[model.Name] = set
	}

	for _, row := range m.Access {
		if _, ok := fields[row.Model]; !ok {
			errs = append(errs, fmt.Errorf("%w: access %q references unknown model %q", ErrInvalidManifest, row.ID, row.Model))
		}
	}
	for _, v := range m.Views {
		set, ok := fields[v.Model]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: view %q references unknown model %q", ErrInvalidManifest, v.ID, v.Model))
			continue
		}
		if v.Type != "list" && v.Type != "form" {
			errs = append(errs, fmt.Errorf("%w: view %q has unsupported type %q", ErrInvalidManifest, v.ID, v.Type))
		}
		for _, name := range v.Fields {
			if _, ok := set[name]; !ok {
				errs = append(errs, fmt.Errorf("%w: view %q references unknown field %q", ErrInvalidManifest, v.ID, name))
			}
		}
	}
	return errors.Join(errs...)
}

// Model 按名称查找模型。
func (m *Manifest) Model(name string) (Model, bool) {
	if m == nil {
		return Model{}, false
	}
	for _, model := range m.Models {
		if model.Name == name {
			return model, true
		}
	}
	return Model{}, false
}
