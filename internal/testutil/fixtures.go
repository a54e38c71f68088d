package testutil

// RootHCL is a root project that passes every rule.
const RootHCL = `
buildscript {
  extra = {
    kotlin_version = "2.1.21"
  }
  repositories = ["google", "mavenCentral"]
  classpath = [
    "com.android.tools.build:gradle:8.1.0",
    "org.jetbrains.kotlin:kotlin-gradle-plugin:${extra.kotlin_version}",
  ]
}

allprojects {
  repositories = ["google", "mavenCentral"]
}

project {
  build_dir = "../../build"
}

subprojects {
  evaluation_depends_on = [":app"]
}

task "clean" {
  type   = "Delete"
  delete = [root.build_dir]
}
`

// AppHCL is an application module that passes every rule.
const AppHCL = `
module "app" {
  plugins   = ["com.android.application", "org.jetbrains.kotlin.android"]
  namespace = "com.example.app"

  compile_sdk = 34

  compile_options {
    source_compatibility = "17"
    target_compatibility = "17"
  }

  kotlin_options {
    jvm_target = "17"
  }

  default_config {
    application_id = "com.example.app"
    min_sdk        = 24
    target_sdk     = 34
    version_code   = 1
    version_name   = "1.0"
  }

  signing_config "upload" {
    store_file         = "upload.jks"
    store_password_env = "UPLOAD_STORE_PASSWORD"
    key_alias          = "upload"
  }

  build_type "release" {
    signing_config = "upload"
  }

  dependency "implementation" {
    platform = "com.google.firebase:firebase-bom:33.3.0"
  }
  dependency "implementation" {
    coordinate = "com.google.firebase:firebase-auth"
  }
}
`

// ValidProject returns the files of a project that passes every rule.
func ValidProject() map[string]string {
	return map[string]string{
		"build.hcl":     RootHCL,
		"app/build.hcl": AppHCL,
	}
}
