package storyboard

import (
	"fmt"
	"strings"
)

// Language selects the message set of a Catalog.
type Language string

const (
	LangZH Language = "zh"
	LangEN Language = "en"
)

// MessageKey identifies one user-visible message.
type MessageKey string

const (
	MsgScriptStarted   MessageKey = "script.started"
	MsgScriptSucceeded MessageKey = "script.succeeded"
	MsgScriptFailed    MessageKey = "script.failed"

	MsgSceneTextStarted   MessageKey = "scene.text.started"
	MsgSceneTextSucceeded MessageKey = "scene.text.succeeded"
	MsgSceneTextFailed    MessageKey = "scene.text.failed"

	MsgImageStarted   MessageKey = "scene.image.started"
	MsgImageSucceeded MessageKey = "scene.image.succeeded"
	MsgImageFailed    MessageKey = "scene.image.failed"

	MsgVideoStarted   MessageKey = "scene.video.started"
	MsgVideoSucceeded MessageKey = "scene.video.succeeded"
	MsgVideoFailed    MessageKey = "scene.video.failed"

	MsgBulkVideos   MessageKey = "videos.bulk"
	MsgSceneDeleted MessageKey = "scene.deleted"
	MsgSceneEdited  MessageKey = "scene.edited"

	MsgAssetAdded   MessageKey = "asset.added"
	MsgAssetRemoved MessageKey = "asset.removed"

	MsgPlotSet       MessageKey = "settings.plot"
	MsgStyleSet      MessageKey = "settings.style"
	MsgSceneCountSet MessageKey = "settings.count"
	MsgResolutionSet MessageKey = "settings.resolution"
	MsgDurationSet   MessageKey = "settings.duration"

	MsgCredentialSelected MessageKey = "credential.selected"

	MsgExportVideos MessageKey = "export.videos"
	MsgExportScript MessageKey = "export.script"
	MsgExportSheet  MessageKey = "export.sheet"

	MsgSessionReset MessageKey = "session.reset"

	AlertScriptFailed     MessageKey = "alert.script"
	AlertImageFailed      MessageKey = "alert.image"
	AlertVideoFailed      MessageKey = "alert.video"
	AlertCredential       MessageKey = "alert.credential"
	AlertCredentialNeeded MessageKey = "alert.credential.needed"
	AlertNoVideos         MessageKey = "alert.novideos"

	ConfirmDelete MessageKey = "confirm.delete"
	ConfirmBulk   MessageKey = "confirm.bulk"

	LabelScene         MessageKey = "label.scene"
	LabelCameraAngle   MessageKey = "label.cameraAngle"
	LabelDescription   MessageKey = "label.description"
	LabelLighting      MessageKey = "label.lighting"
	LabelProductAction MessageKey = "label.productAction"
	LabelVideoFile     MessageKey = "label.videoFile"
	LabelScriptFile    MessageKey = "label.scriptFile"
	LabelSheetFile     MessageKey = "label.sheetFile"
	LabelField         MessageKey = "label.field"
)

var messages = map[Language]map[MessageKey]string{
	LangZH: {
		MsgScriptStarted:   "开始生成脚本：%s...",
		MsgScriptSucceeded: "脚本生成成功（共 %d 个分镜）",
		MsgScriptFailed:    "脚本生成失败",

		MsgSceneTextStarted:   "重新设计第 %d 场脚本",
		MsgSceneTextSucceeded: "第 %d 场脚本已更新",
		MsgSceneTextFailed:    "第 %d 场脚本更新失败",

		MsgImageStarted:   "生成第 %d 场静态分镜",
		MsgImageSucceeded: "第 %d 场静态分镜渲染完成",
		MsgImageFailed:    "第 %d 场静态分镜生成失败",

		MsgVideoStarted:   "开始渲染第 %d 场视频 (耗时较长)",
		MsgVideoSucceeded: "第 %d 场视频生成完成",
		MsgVideoFailed:    "第 %d 场视频生成失败",

		MsgBulkVideos:   "一键生成 %d 个视频",
		MsgSceneDeleted: "已删除第 %d 场分镜",
		MsgSceneEdited:  "修改了第 %d 场的%s",

		MsgAssetAdded:   "已添加产品参考：%s",
		MsgAssetRemoved: "移除了一项产品参考资源",

		MsgPlotSet:       "更新了剧情大纲",
		MsgStyleSet:      "更新了镜头风格",
		MsgSceneCountSet: "分镜数量设为 %d",
		MsgResolutionSet: "视频分辨率设为 %s",
		MsgDurationSet:   "视频时长设为 %d 秒",

		MsgCredentialSelected: "已选择 API Key",

		MsgExportVideos: "正在打包导出所有视频...",
		MsgExportScript: "已导出分镜脚本",
		MsgExportSheet:  "已导出分镜总览图",

		MsgSessionReset: "会话已重置",

		AlertScriptFailed:     "脚本生成失败。",
		AlertImageFailed:      "画面生成失败。",
		AlertVideoFailed:      "视频生成失败。",
		AlertCredential:       "API Key 无效或已过期，请重新选择付费项目 Key。",
		AlertCredentialNeeded: "使用 Veo 视频生成功能需要有效的 API Key。",
		AlertNoVideos:         "尚未生成任何视频。",

		ConfirmDelete: "确定删除第 %d 场分镜吗？",
		ConfirmBulk:   "即将生成 %d 个视频，这可能需要较长时间，确定继续吗？",

		LabelScene:         "第 %d 场",
		LabelCameraAngle:   "镜头构图",
		LabelDescription:   "画面描述",
		LabelLighting:      "灯光氛围",
		LabelProductAction: "产品动态",
		LabelVideoFile:     "视频_%02d.mp4",
		LabelScriptFile:    "分镜脚本.txt",
		LabelSheetFile:     "分镜总览.png",
		LabelField:         "%s：%s",
	},
	LangEN: {
		MsgScriptStarted:   "Generating script: %s...",
		MsgScriptSucceeded: "Script generated (%d scenes)",
		MsgScriptFailed:    "Script generation failed",

		MsgSceneTextStarted:   "Rewriting scene %d",
		MsgSceneTextSucceeded: "Scene %d script updated",
		MsgSceneTextFailed:    "Scene %d script update failed",

		MsgImageStarted:   "Rendering still for scene %d",
		MsgImageSucceeded: "Scene %d still rendered",
		MsgImageFailed:    "Scene %d still failed",

		MsgVideoStarted:   "Rendering video for scene %d (this takes a while)",
		MsgVideoSucceeded: "Scene %d video ready",
		MsgVideoFailed:    "Scene %d video failed",

		MsgBulkVideos:   "Generating %d videos",
		MsgSceneDeleted: "Deleted scene %d",
		MsgSceneEdited:  "Edited %[2]s of scene %[1]d",

		MsgAssetAdded:   "Added product reference: %s",
		MsgAssetRemoved: "Removed a product reference",

		MsgPlotSet:       "Plot updated",
		MsgStyleSet:      "Camera style updated",
		MsgSceneCountSet: "Scene count set to %d",
		MsgResolutionSet: "Video resolution set to %s",
		MsgDurationSet:   "Video duration set to %d seconds",

		MsgCredentialSelected: "API key selected",

		MsgExportVideos: "Exporting all videos...",
		MsgExportScript: "Script exported",
		MsgExportSheet:  "Contact sheet exported",

		MsgSessionReset: "Session reset",

		AlertScriptFailed:     "Script generation failed.",
		AlertImageFailed:      "Image generation failed.",
		AlertVideoFailed:      "Video generation failed.",
		AlertCredential:       "The API key is invalid or expired. Please select a key from a paid project.",
		AlertCredentialNeeded: "Video generation requires a valid API key.",
		AlertNoVideos:         "No videos have been generated yet.",

		ConfirmDelete: "Delete scene %d?",
		ConfirmBulk:   "About to generate %d videos. This can take a long time. Continue?",

		LabelScene:         "Scene %d",
		LabelCameraAngle:   "Camera",
		LabelDescription:   "Description",
		LabelLighting:      "Lighting",
		LabelProductAction: "Product action",
		LabelVideoFile:     "scene_%02d.mp4",
		LabelScriptFile:    "storyboard_script.txt",
		LabelSheetFile:     "contact_sheet.png",
		LabelField:         "%s: %s",
	},
}

// Catalog renders messages in one language.
type Catalog struct {
	lang Language
}

// NewCatalog returns the catalog for lang. Unknown languages fall back to
// Chinese.
func NewCatalog(lang Language) *Catalog {
	if _, ok := messages[lang]; !ok {
		lang = LangZH
	}
	return &Catalog{lang: lang}
}

func (c *Catalog) Language() Language { return c.lang }

// Format renders key with args. Missing keys render as the key itself.
func (c *Catalog) Format(key MessageKey, args ...any) string {
	tmpl, ok := messages[c.lang][key]
	if !ok {
		return string(key)
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// FieldLabel is the display name of a scene field.
func (c *Catalog) FieldLabel(f SceneField) string {
	switch f {
	case FieldCameraAngle:
		return c.Format(LabelCameraAngle)
	case FieldDescription:
		return c.Format(LabelDescription)
	case FieldLighting:
		return c.Format(LabelLighting)
	case FieldProductAction:
		return c.Format(LabelProductAction)
	}
	return string(f)
}

// VideoFileName is the export name of the video for scene n.
func (c *Catalog) VideoFileName(n int) string {
	return c.Format(LabelVideoFile, n)
}

// plotPreview returns the first 20 runes of plot.
func plotPreview(plot string) string {
	plot = strings.TrimSpace(plot)
	r := []rune(plot)
	if len(r) > 20 {
		r = r[:20]
	}
	return string(r)
}
