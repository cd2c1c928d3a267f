package shader

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// ───────────────────────────── Built-in stage sources ─────────────────────────────

const defaultVertexSource = `#version 410 core
layout (location = 0) in vec3 in_pos;
layout (location = 1) in vec3 in_color;
out vec3 vert_color;
void main() {
    vert_color = in_color;
    gl_Position = vec4(in_pos, 1.0);
}
`

// Ray-marches a field of spheres from the camera pose. iResolution.yz is the
// viewport size in pixels.
const defaultFragmentSource = `#version 410 core
in vec3 vert_color;
out vec4 frag_color;

uniform vec3  iResolution;
uniform float iTime;
uniform vec3  iPosition;
uniform vec3  iRotation;

mat3 rotation(vec3 r) {
    float cy = cos(r.z), sy = sin(r.z);
    float cp = cos(r.y), sp = sin(r.y);
    mat3 yaw   = mat3(cy, 0.0, -sy,  0.0, 1.0, 0.0,  sy, 0.0, cy);
    mat3 pitch = mat3(1.0, 0.0, 0.0,  0.0, cp, sp,  0.0, -sp, cp);
    return yaw * pitch;
}

float scene(vec3 p) {
    vec3 q = mod(p + 2.0, 4.0) - 2.0;
    return length(q) - 0.6 - 0.05 * sin(iTime + p.x);
}

void main() {
    vec2 res = iResolution.yz;
    vec2 uv = (gl_FragCoord.xy - 0.5 * res) / res.y;
    vec3 dir = rotation(iRotation) * normalize(vec3(uv, 1.0));

    float t = 0.0;
    int i;
    for (i = 0; i < 96; i++) {
        float d = scene(iPosition + dir * t);
        if (d < 0.001 || t > 60.0) break;
        t += d;
    }
    float fog = exp(-0.04 * t);
    vec3 col = mix(vec3(0.2, 0.3, 0.3), 0.5 + 0.5 * cos(vec3(0.0, 2.0, 4.0) + t * 0.2), fog);
    frag_color = vec4(col * (1.0 - float(i) / 128.0) + 0.05 * vert_color, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// DefaultSource returns the built-in vertex/fragment pair.
func DefaultSource() Source {
	return Source{Vertex: defaultVertexSource, Fragment: defaultFragmentSource}
}

// WriteDefaults writes the built-in pair to vertexPath and fragmentPath,
// leaving files that already exist untouched.
func WriteDefaults(vertexPath, fragmentPath string) error {
	src := DefaultSource()
	for _, f := range []struct{ path, text string }{
		{vertexPath, src.Vertex},
		{fragmentPath, src.Fragment},
	} {
		if _, err := os.Stat(f.path); err == nil {
			log.Printf("Keeping existing shader %s", f.path)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat %s: %w", f.path, err)
		}
		if dir := filepath.Dir(f.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(f.path, []byte(f.text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
		log.Printf("Wrote default shader %s", f.path)
	}
	return nil
}
