package generation

import (
	"fmt"

	"github.com/dmitrijs2005/storyboard/internal/storyboard"
)

// ScriptPrompt is the instruction for a full script of req.Count scenes.
func ScriptPrompt(req ScriptRequest) string {
	if req.Language == storyboard.LangEN {
		return fmt.Sprintf(`You are a professional director and storyboard artist.
Plot outline: "%s".
Apply this camera and shot style guide: "%s".

Produce a detailed, professional storyboard as JSON with exactly %d scenes.
Requirements:
1. "cameraAngle": use professional cinematography terms (close-up, high angle, low angle, push in, pull out, orbit, and so on).
2. "description": describe the visual composition, focusing on the talent and the environment.
3. "productAction": describe precisely where the product sits in frame or how it moves.
4. If product reference images are attached, analyse their structure and make sure the shots show it off.`,
			req.Plot, req.Style, req.Count)
	}
	return fmt.Sprintf(`你是一位专业的导演和分镜师。
请根据以下剧情大纲： "%s"。
并应用这些特定的镜头/镜头风格指南： "%s"。

请生成一个包含恰好 %d 个场景的详细专业分镜 JSON。
要求：
1. "cameraAngle": 必须使用专业的中文摄影术语（如：特写、俯拍、仰拍、推镜头、拉镜头、环绕镜头等）。
2. "description": 描述视觉构图，重点关注演员和环境。
3. "productAction": 详细描述产品在镜头中的物理位置或运动。
4. 如果提供了产品参考图，请分析其结构，并确保分镜设计能完美展示该产品的结构特点。`,
		req.Plot, req.Style, req.Count)
}

// ScenePrompt asks for a fresh version of one scene.
func ScenePrompt(req SceneRequest) string {
	if req.Language == storyboard.LangEN {
		return fmt.Sprintf(`You are a professional director and storyboard artist.
Overall plot: "%s".
Style guide: "%s".

Redesign the script of scene %d. It currently reads "%s"; provide a more creative version that fits the style better.
Requirements:
1. "cameraAngle": professional cinematography terms.
2. "description": the visual composition.
3. "productAction": how the product moves.

Return only the JSON object for this one scene.`,
			req.Plot, req.Style, req.Number, req.CurrentDescription)
	}
	return fmt.Sprintf(`你是一位专业的导演和分镜师。
全局剧情大纲： "%s"。
风格指南： "%s"。

请重新设计第 %d 场分镜的脚本。当前内容是 "%s"，请提供一个更有创意或更符合风格的新版本。
要求：
1. "cameraAngle": 必须使用专业的中文摄影术语。
2. "description": 视觉构图描述。
3. "productAction": 产品动态描述。

仅返回这一个场景的 JSON 对象。`,
		req.Plot, req.Style, req.Number, req.CurrentDescription)
}

// ImagePrompt describes one storyboard frame.
func ImagePrompt(sc storyboard.Scene) string {
	return fmt.Sprintf(`STORYBOARD PRODUCTION FRAME.
CAMERA DIRECTION: %[1]s.
SCENE DESCRIPTION: %[2]s.
LIGHTING DESIGN: %[3]s.
PRODUCT SPECIFICS: %[4]s.

TECHNICAL STIPULATIONS:
- Strictly render from the angle: %[1]s.
- Please preserve the product's structure, branding, and shape from the provided reference images.
- Style: Clean cinematic concept art, highly legible for production crews.`,
		sc.CameraAngle, sc.Description, sc.Lighting, sc.ProductAction)
}

// VideoPrompt describes one clip. The clip length is only a hint to the
// model; the video endpoint does not accept these durations directly.
func VideoPrompt(req VideoRequest) string {
	sc, d := req.Scene, int(req.Duration)
	if req.Language == storyboard.LangEN {
		p := fmt.Sprintf("Cinematic video: %s. Camera: %s. Lighting: %s. Product action: %s. Keep the product structure consistent. Professional quality.",
			sc.Description, sc.CameraAngle, sc.Lighting, sc.ProductAction)
		if d > 0 {
			p += fmt.Sprintf(" Roughly %d seconds long.", d)
		}
		return p
	}
	p := fmt.Sprintf("电影级视频：%s。镜头：%s。灯光：%s。产品动作：%s。保持产品结构一致。专业质量。",
		sc.Description, sc.CameraAngle, sc.Lighting, sc.ProductAction)
	if d > 0 {
		p += fmt.Sprintf("时长约 %d 秒。", d)
	}
	return p
}
