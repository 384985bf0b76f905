package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/service"
)

type systemSettingsPayload struct {
	SiteName         string `json:"site_name"`
	SiteLogoURL      string `json:"site_logo_url"`
	PublicFooterText string `json:"public_footer_text"`
}

// ShowSystemSettings 渲染系统设置页面
func (a *API) ShowSystemSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		a.renderHTML(c, http.StatusInternalServerError, "system_settings.html", gin.H{
			"title": "系统设置",
			"error": "加载系统设置失败",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "system_settings.html", gin.H{
		"title":    "系统设置",
		"settings": settings,
	})
}

// UpdateSystemSettings 保存系统设置
func (a *API) UpdateSystemSettings(c *gin.Context) {
	var payload systemSettingsPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	settings, err := a.system.UpdateSettings(service.SystemSettingsInput{
		SiteName:         payload.SiteName,
		SiteLogoURL:      payload.SiteLogoURL,
		PublicFooterText: payload.PublicFooterText,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存系统设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "系统设置已保存", "settings": settings})
}
