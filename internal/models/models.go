package models

// All 回傳需要自動遷移的所有模型，順序即建立順序
func All() []interface{} {
	return []interface{}{&User{}, &Vehicle{}, &VehicleStatusRecord{}}
}
