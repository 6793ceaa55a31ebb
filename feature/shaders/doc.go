// Package shaders implements update-shaders: fetch the shader pack and install
// it into the game's shaderpacks directory, asking before replacing a copy
// that is already there.
package shaders
