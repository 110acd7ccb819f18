package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// ModuleFields 提供模块 id 与种类字段，预加载与模块管理接口共用。
func ModuleFields(moduleID, kind string) logrus.Fields {
	return logrus.Fields{
		"module_id":   moduleID,
		"module_kind": kind,
	}
}

// RequestFields 提供请求 id/方法/路径字段，供 HTTP 访问日志复用。
func RequestFields(requestID, method, path string) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	}
}
