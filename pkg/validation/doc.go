/*
Package validation 설정 파일과 API 요청으로 전달된 파일 시스템 경로의 유효성을 검사합니다.

  - ValidateFile: 읽을 수 있는 일반 파일인지 확인
  - ValidateDir: 읽을 수 있는 디렉터리인지 확인
  - ResolveWithin: 경로가 기준 디렉터리 밖을 가리키지 않는지 확인
*/
package validation
