package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShaderSource = `
	#version 410 core

	layout (location = 0) in vec3 aPos;
	layout (location = 1) in vec3 aNormal;
	layout (location = 2) in vec2 aUV;

	uniform mat4 uModel;
	uniform mat4 uView;
	uniform mat4 uProjection;

	out vec3 vNormal;
	out vec2 vUV;

	void main() {
		gl_Position = uProjection * uView * uModel * vec4(aPos, 1.0);
		vNormal = mat3(uModel) * aNormal;
		vUV = aUV;
	}
` + "\x00"

const fragmentShaderSource = `
	#version 410 core

	in vec3 vNormal;
	in vec2 vUV;

	uniform sampler2D uTexture;

	out vec4 FragColor;

	void main() {
		vec4 texel = texture(uTexture, vUV);
		if (texel.a < 0.01) {
			discard;
		}
		vec3 lightDir = normalize(vec3(0.4, 0.8, 0.5));
		float diffuse = max(dot(normalize(vNormal), lightDir), 0.0);
		vec3 lit = texel.rgb * (0.55 + 0.45 * diffuse);
		FragColor = vec4(lit, texel.a);
	}
` + "\x00"

// createProgram compiles and links the mesh shader program.
func createProgram() (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragmentShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %s", log)
	}

	return program, nil
}

// compileShader compiles a shader from source.
func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %s", log)
	}

	return shader, nil
}
