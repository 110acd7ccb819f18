// Package snapshot 将 store 状态导出到 StoragePath/snapshots/<name>.<ext>。
// 写入采用临时文件 + rename，保证读者只会看到完整的快照；格式为 JSON
// （json-iterator）或 YAML（yaml.v3）。快照只用于导出与诊断，启动时不会回放。
package snapshot
