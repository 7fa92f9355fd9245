package renderer

// crosshairShader draws two line segments through the viewport center.
// The vertex stage emits the four endpoints from the vertex index so no buffers are bound.
const crosshairShader = `
const ARM: f32 = 0.04;

@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    var pts = array<vec2<f32>, 4>(
        vec2<f32>(-ARM, 0.0),
        vec2<f32>(ARM, 0.0),
        vec2<f32>(0.0, -ARM),
        vec2<f32>(0.0, ARM),
    );
    return vec4<f32>(pts[i], 0.0, 1.0);
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 1.0, 1.0, 1.0);
}
`

const crosshairVertexCount = 4
