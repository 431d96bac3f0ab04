// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

// Package character composes a body and a weapon MD2 model that share
// one pose, presenting them as a single animated entity.
package character

import (
	"fmt"
	"iter"
	"strings"

	"github.com/mdraster/md2view/md2"
)

// Character owns two models, body and weapon, and forwards every pose
// setter and frame step to both so they animate and move in lockstep.
type Character struct {
	body   *md2.Model
	weapon *md2.Model
}

// Load decodes the body and weapon MD2 models, deriving each one's
// skin path from its model path by replacing the extension with .pcx.
func Load(bodyPath, weaponPath string, opts ...md2.Option) (*Character, error) {
	body, err := md2.Load(bodyPath, DeriveSkinPath(bodyPath), opts...)
	if err != nil {
		return nil, fmt.Errorf("character: body: %w", err)
	}
	weapon, err := md2.Load(weaponPath, DeriveSkinPath(weaponPath), opts...)
	if err != nil {
		return nil, fmt.Errorf("character: weapon: %w", err)
	}
	return &Character{body: body, weapon: weapon}, nil
}

// DeriveSkinPath replaces a model file's extension with .pcx, e.g.
// "tris.md2" becomes "tris.pcx".
func DeriveSkinPath(modelPath string) string {
	if i := strings.LastIndexByte(modelPath, '.'); i >= 0 {
		return modelPath[:i] + ".pcx"
	}
	return modelPath + ".pcx"
}

// Body returns the character's body model.
func (c *Character) Body() *md2.Model { return c.body }

// Weapon returns the character's weapon model.
func (c *Character) Weapon() *md2.Model { return c.weapon }

// Rotate sets the shared pose rotation on both models.
func (c *Character) Rotate(ax, ay, az float32) {
	c.body.Rotate(ax, ay, az)
	c.weapon.Rotate(ax, ay, az)
}

// SetScale sets the shared pose scale on both models.
func (c *Character) SetScale(s float32) {
	c.body.SetScale(s)
	c.weapon.SetScale(s)
}

// Translate sets the shared pose translation on both models.
func (c *Character) Translate(tx, ty, tz float32) {
	c.body.Translate(tx, ty, tz)
	c.weapon.Translate(tx, ty, tz)
}

// SetRenderType switches both models between Textured and Wireframe.
func (c *Character) SetRenderType(rt md2.RenderType) {
	c.body.SetRenderType(rt)
	c.weapon.SetRenderType(rt)
}

// AdvanceFrame steps both models to the next frame in their current sequence.
func (c *Character) AdvanceFrame() {
	c.body.AdvanceFrame()
	c.weapon.AdvanceFrame()
}

// AdvanceSequence steps both models to the next animation sequence.
func (c *Character) AdvanceSequence() {
	c.body.AdvanceSequence()
	c.weapon.AdvanceSequence()
}

// PreviousSequence steps both models to the prior animation sequence.
func (c *Character) PreviousSequence() {
	c.body.PreviousSequence()
	c.weapon.PreviousSequence()
}

// TrianglesInFrame yields the body's projected triangles followed by
// the weapon's. Neither stream is sorted; the caller depth-sorts the
// concatenated result before rasterizing.
func (c *Character) TrianglesInFrame() iter.Seq[md2.ProjectedTriangle] {
	return func(yield func(md2.ProjectedTriangle) bool) {
		for t := range c.body.TrianglesInFrame() {
			if !yield(t) {
				return
			}
		}
		for t := range c.weapon.TrianglesInFrame() {
			if !yield(t) {
				return
			}
		}
	}
}
