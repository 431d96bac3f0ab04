// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package scene reads a yaml manifest describing the models that make
// up one renderable scene: a body model, an optional weapon model, and
// a starting pose. This is a thin declarative layer on top of md2 and
// character; it holds no rendering state of its own.
package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/mdraster/md2view/character"
	"github.com/mdraster/md2view/md2"
)

// Pose is the starting rotate/scale/translate applied to a loaded entity.
type Pose struct {
	Rotate    [3]float32 `yaml:"rotate"`
	Scale     float32    `yaml:"scale"`
	Translate [3]float32 `yaml:"translate"`
}

// manifest is the on-disk yaml shape.
type manifest struct {
	Body   string `yaml:"body"`
	Weapon string `yaml:"weapon"`
	Pose   Pose   `yaml:"pose"`
}

// Entity is a fully loaded character and the pose its manifest requested.
type Entity struct {
	Character *character.Character
	Pose      Pose
}

// Load parses a yaml manifest and loads the body and weapon MD2 models
// it names, applying the manifest's starting pose. When no weapon is
// named, the body model is loaded a second time as the weapon.
// Skin paths are derived from each model path per character.DeriveSkinPath.
func Load(data []byte, opts ...md2.Option) (*Entity, error) {
	var cfg manifest
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("scene: yaml: %w", err)
	}
	if cfg.Body == "" {
		return nil, fmt.Errorf("scene: manifest has no body model")
	}
	if cfg.Pose.Scale == 0 {
		cfg.Pose.Scale = 1
	}

	weaponPath := cfg.Weapon
	if weaponPath == "" {
		weaponPath = cfg.Body
	}
	c, err := character.Load(cfg.Body, weaponPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	c.Rotate(cfg.Pose.Rotate[0], cfg.Pose.Rotate[1], cfg.Pose.Rotate[2])
	c.SetScale(cfg.Pose.Scale)
	c.Translate(cfg.Pose.Translate[0], cfg.Pose.Translate[1], cfg.Pose.Translate[2])

	return &Entity{Character: c, Pose: cfg.Pose}, nil
}
