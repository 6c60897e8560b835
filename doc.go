// Package rmeconv converts legacy Roughness-Metallic-Emission (RME) textures
// into Occlusion-Roughness-Metallic (ORM) and Emission textures, the texture
// layout motivated by the glTF2 standard.
//
// The package works on whole material libraries with Run, which mirrors a
// source folder tree into a destination tree, and on single texture sets with
// Convert, PackORM and ComposeEmission.
package rmeconv
